package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore は全エントリを1つのJSONオブジェクトとしてファイルに保存するStore。
// 書き込みのたびにファイル全体を一時ファイル経由で置き換える。
type FileStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
	quota   int64
}

// OpenFileStore はファイルを読み込んでFileStoreを生成する。
// 保存先ディレクトリがなければ作成する。ファイルが存在しない場合は空のストアとして開き、
// 最初の書き込みで作成する。quotaが0以下の場合は容量無制限。
func OpenFileStore(path string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	entries := make(map[string]string)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// 初回起動
	case err != nil:
		return nil, fmt.Errorf("failed to read store file: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
		}
	}

	return &FileStore{
		path:    path,
		entries: entries,
		quota:   quota,
	}, nil
}

// Get は指定キーの値を取得する。
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	return v, ok, nil
}

// Set は指定キーに値を書き込み、ファイルへ反映する。
// ファイルへの書き込みに失敗した場合はメモリ上の値も元に戻す。
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fitsQuota(s.entries, s.quota, key, value) {
		return ErrQuotaExceeded
	}

	old, existed := s.entries[key]
	s.entries[key] = value
	if err := s.writeLocked(); err != nil {
		if existed {
			s.entries[key] = old
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// Delete は指定キーを削除し、ファイルへ反映する。
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.entries[key]
	if !existed {
		return nil
	}
	delete(s.entries, key)
	if err := s.writeLocked(); err != nil {
		s.entries[key] = old
		return err
	}
	return nil
}

// Ping は保存先ディレクトリが存在するかを確認する。
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store directory unavailable: %s is not a directory", dir)
	}
	return nil
}

// writeLocked はエントリ全体を一時ファイルに書き出してからrenameで置き換える。
// 呼び出し側でs.muのロックを保持していること。
func (s *FileStore) writeLocked() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*FileStore)(nil)
