package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/validation"
)

// CustomerServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
// customer.Serviceが実装する。
type CustomerServiceInterface interface {
	Add(ctx context.Context, form model.CustomerForm) (model.Customer, bool)
	Update(ctx context.Context, id string, form model.CustomerForm) bool
	Delete(ctx context.Context, id string) bool
	GetByID(id string) (model.Customer, bool)
	Search(query string) []model.Customer
	Stats(now time.Time) model.CustomerStats
}

// CustomerHandler は顧客管理のHTTPハンドラー。
type CustomerHandler struct {
	service CustomerServiceInterface
	now     func() time.Time
}

// NewCustomerHandler はCustomerHandlerを生成する。
func NewCustomerHandler(service CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		now:     time.Now,
	}
}

// customerListResponse は顧客一覧のAPIレスポンス。
type customerListResponse struct {
	Customers []model.Customer `json:"customers"`
	Total     int              `json:"total"`
}

// ListCustomers は顧客一覧を返す。qを指定した場合は検索結果を返す。
// GET /api/customers?q=
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.service.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, customerListResponse{
		Customers: customers,
		Total:     len(customers),
	})
}

// CreateCustomer は顧客を登録する。
// POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var form model.CustomerForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidateCustomerForm(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	customer, ok := h.service.Add(r.Context(), form)
	if !ok {
		handleServiceError(w, r, model.NewPersistenceError("add"))
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// GetCustomer は顧客詳細を返す。
// GET /api/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, ok := h.service.GetByID(id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomer は顧客の可変項目を更新する。
// 該当する顧客がいない場合も成功として204を返す。
// PUT /api/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form model.CustomerForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if errs := validation.ValidateCustomerForm(form); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	if !h.service.Update(r.Context(), id, form) {
		handleServiceError(w, r, model.NewPersistenceError("update"))
		return
	}

	customer, ok := h.service.GetByID(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// DeleteCustomer は顧客を削除する。該当する顧客がいなくても204を返す。
// DELETE /api/customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.service.Delete(r.Context(), chi.URLParam(r, "id")) {
		handleServiceError(w, r, model.NewPersistenceError("delete"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats はダッシュボードの集計値を返す。
// GET /api/dashboard/stats
func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats(h.now()))
}
