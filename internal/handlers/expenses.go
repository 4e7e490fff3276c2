package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hallmate/internal/httputil"
	"hallmate/internal/middleware"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// PersonalExpenseHandler serves a user's private spending log. Essential
// entries double as the data source for the emergency fund's months-of-cover
// setup.
type PersonalExpenseHandler struct {
	store storage.Store
}

// NewPersonalExpenseHandler creates the personal expense handler.
func NewPersonalExpenseHandler(store storage.Store) *PersonalExpenseHandler {
	return &PersonalExpenseHandler{store: store}
}

type personalExpenseRequest struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	Essential bool            `json:"essential"`
	Date      int64           `json:"date"`
}

func (h *PersonalExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req personalExpenseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	expense := &models.PersonalExpense{
		UserID:    middleware.GetUserID(r.Context()),
		Category:  strings.TrimSpace(req.Category),
		Amount:    models.RoundMoney(req.Amount),
		Note:      strings.TrimSpace(req.Note),
		Essential: req.Essential,
		Date:      req.Date,
	}
	if err := expense.Validate(); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if err := h.store.CreatePersonalExpense(r.Context(), expense); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, expense)
}

func (h *PersonalExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListPersonalExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, expenses)
}

func (h *PersonalExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.store.GetPersonalExpense(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if expense == nil {
		httputil.WriteError(w, http.StatusNotFound, "expense not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, expense)
}

func (h *PersonalExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req personalExpenseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	expense, err := h.store.GetPersonalExpense(r.Context(), userID, chi.URLParam(r, "expenseID"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if expense == nil {
		httputil.WriteError(w, http.StatusNotFound, "expense not found")
		return
	}

	expense.Category = strings.TrimSpace(req.Category)
	expense.Amount = models.RoundMoney(req.Amount)
	expense.Note = strings.TrimSpace(req.Note)
	expense.Essential = req.Essential
	if req.Date != 0 {
		expense.Date = req.Date
	}
	if err := expense.Validate(); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	if err := h.store.UpdatePersonalExpense(r.Context(), expense); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "expense not found")
			return
		}
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, expense)
}

func (h *PersonalExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeletePersonalExpense(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "expense not found")
			return
		}
		httputil.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
