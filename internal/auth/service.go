// Package auth はアカウントの登録、ログイン、パスワード再設定と
// ログイン中ユーザーの管理を提供する。
//
// ログイン中ユーザーはプロセスで1人だけ保持し、保存枠（cms_current_user）に反映する。
// ユーザーコレクションとの整合性は検証しない。
//
// 注意: これはクライアントごとのセッションではない。ログイン後は、どのHTTPクライアントからの
// リクエストも最後にログインしたユーザーとして扱われる。単一の管理端末での利用のみを想定する。
package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/custdesk/internal/idgen"
	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/repository"
	"github.com/hitoshi/custdesk/internal/validation"
)

// 認証操作のメトリクスラベル
const (
	actionLogin          = "login"
	actionSignup         = "signup"
	actionResetPassword  = "reset_password"
	actionChangePassword = "change_password"
)

// IDGenerator はユーザーIDの生成インターフェース。
type IDGenerator interface {
	Generate(prefix string) string
}

// Service はアカウント操作とログイン中ユーザーを管理する。
// すべての操作はmuで直列化される。
type Service struct {
	mu      sync.Mutex
	users   repository.UserRepository
	session repository.SessionRepository
	hasher  PasswordHasher
	ids     IDGenerator
	metrics metrics.MetricsCollector
	now     func() time.Time

	current *model.User
}

// NewService はServiceを生成し、保存枠からログイン中ユーザーを復元する。
// hasherがnilの場合はPlainHasher、mcはnilでもよい。
func NewService(
	ctx context.Context,
	users repository.UserRepository,
	session repository.SessionRepository,
	hasher PasswordHasher,
	mc metrics.MetricsCollector,
) *Service {
	if hasher == nil {
		hasher = PlainHasher{}
	}
	return &Service{
		users:   users,
		session: session,
		hasher:  hasher,
		ids:     idgen.New(),
		metrics: mc,
		now:     time.Now,
		current: session.Load(ctx),
	}
}

// Login はメールアドレスとパスワードが一致する最初のユーザーでログインする。
// 一致しない場合はfalseを返し、ログイン中ユーザーは変更しない。
func (s *Service) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users.Load(ctx) {
		if u.Email == email && s.hasher.Compare(u.Password, password) {
			s.setCurrentLocked(ctx, &u)
			s.record(actionLogin, true)
			slog.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID))
			return true
		}
	}

	s.record(actionLogin, false)
	slog.InfoContext(ctx, "login rejected", slog.String("email", email))
	return false
}

// Signup はユーザーを登録してログインする。
// メールアドレスの形式が不正な場合、または登録済みの場合はfalseを返す。
func (s *Service) Signup(ctx context.Context, email, password, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validation.ValidateEmail(email) {
		s.record(actionSignup, false)
		return false
	}

	users := s.users.Load(ctx)
	if indexByEmail(users, email) >= 0 {
		s.record(actionSignup, false)
		slog.InfoContext(ctx, "signup rejected: email taken", slog.String("email", email))
		return false
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		s.record(actionSignup, false)
		slog.ErrorContext(ctx, "failed to hash password", slog.String("error", err.Error()))
		return false
	}

	user := model.User{
		ID:        s.ids.Generate(idgen.PrefixUser),
		Email:     email,
		Password:  stored,
		Name:      name,
		CreatedAt: s.now(),
	}
	users = append(users, user)
	// 保存失敗はリポジトリでログ記録済み。呼び出し元には伝えない
	_ = s.users.Save(ctx, users)
	s.setCurrentLocked(ctx, &user)

	s.record(actionSignup, true)
	slog.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return true
}

// Logout はログイン中ユーザーを解除し、保存枠を削除する。
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		slog.InfoContext(ctx, "user logged out", slog.String("user_id", s.current.ID))
	}
	s.setCurrentLocked(ctx, nil)
}

// ResetPassword は指定メールアドレスのユーザーのパスワードを上書きする。
// 該当ユーザーがいない場合はfalseを返す。
// ログイン中ユーザーのメールアドレスと一致する場合は保存枠のコピーも更新する。
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.resetPasswordLocked(ctx, email, newPassword)
	s.record(actionResetPassword, ok)
	return ok
}

func (s *Service) resetPasswordLocked(ctx context.Context, email, newPassword string) bool {
	users := s.users.Load(ctx)
	idx := indexByEmail(users, email)
	if idx < 0 {
		return false
	}

	stored, err := s.hasher.Hash(newPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", slog.String("error", err.Error()))
		return false
	}

	users[idx].Password = stored
	_ = s.users.Save(ctx, users)

	if s.current != nil && s.current.Email == email {
		updated := *s.current
		updated.Password = stored
		s.setCurrentLocked(ctx, &updated)
	}

	slog.InfoContext(ctx, "password reset", slog.String("user_id", users[idx].ID))
	return true
}

// UpdateProfile はログイン中ユーザーの名前とメールアドレスを更新する。
// 未ログインの場合、ユーザーがコレクションに存在しない場合、
// 変更後のメールアドレスが他のユーザーに使われている場合はfalseを返す。
func (s *Service) UpdateProfile(ctx context.Context, patch model.ProfilePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false
	}

	users := s.users.Load(ctx)
	idx := indexByID(users, s.current.ID)
	if idx < 0 {
		slog.WarnContext(ctx, "current user missing from collection", slog.String("user_id", s.current.ID))
		return false
	}
	if patch.Email != nil && emailTakenByOther(users, *patch.Email, s.current.ID) {
		return false
	}

	users[idx] = patch.Apply(users[idx])
	_ = s.users.Save(ctx, users)

	updated := users[idx]
	s.setCurrentLocked(ctx, &updated)

	slog.InfoContext(ctx, "profile updated", slog.String("user_id", updated.ID))
	return true
}

// IsEmailTaken はexceptUserID以外のユーザーがemailを使用しているかを返す。
func (s *Service) IsEmailTaken(ctx context.Context, email, exceptUserID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return emailTakenByOther(s.users.Load(ctx), email, exceptUserID)
}

// ChangePassword は現在のパスワードを確認したうえでパスワードを変更する。
// 入力エラーまたは現在のパスワードの不一致があればエラー内容とfalseを返す。
func (s *Service) ChangePassword(ctx context.Context, form validation.PasswordChangeForm) (validation.FieldErrors, bool) {
	errs := validation.ValidatePasswordChange(form)
	if !errs.Valid() {
		return errs, false
	}
	if !s.AcceptsPassword(form.NewPassword) {
		return validation.FieldErrors{"newPassword": validation.PasswordTooLongMessage}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return validation.FieldErrors{}, false
	}
	if !s.hasher.Compare(s.current.Password, form.CurrentPassword) {
		s.record(actionChangePassword, false)
		return validation.FieldErrors{"currentPassword": "Current password is incorrect"}, false
	}

	ok := s.resetPasswordLocked(ctx, s.current.Email, form.NewPassword)
	s.record(actionChangePassword, ok)
	return validation.FieldErrors{}, ok
}

// AcceptsPassword は保存方式がpasswordを扱えるかを返す。
// bcryptでは72バイトを超えるパスワードを扱えない。
func (s *Service) AcceptsPassword(password string) bool {
	if l, ok := s.hasher.(passwordLimiter); ok {
		return len(password) <= l.MaxPasswordBytes()
	}
	return true
}

// CurrentUser はログイン中ユーザーのコピーを返す。未ログインの場合はnil。
func (s *Service) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Flush はログイン中ユーザーを保存枠に書き込む。終了時に呼び出す。
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Save(ctx, s.current)
}

// setCurrentLocked はログイン中ユーザーを差し替えて保存枠に反映する。
func (s *Service) setCurrentLocked(ctx context.Context, u *model.User) {
	if u == nil {
		s.current = nil
	} else {
		cp := *u
		s.current = &cp
	}
	_ = s.session.Save(ctx, s.current)
}

func (s *Service) record(action string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt(action, metrics.Result(ok))
	}
}

func indexByEmail(users []model.User, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func indexByID(users []model.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func emailTakenByOther(users []model.User, email, exceptUserID string) bool {
	for _, u := range users {
		if u.ID != exceptUserID && u.Email == email {
			return true
		}
	}
	return false
}
