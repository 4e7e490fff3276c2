package handlers

import (
	"net/http"

	"hallmate/internal/httputil"
	"hallmate/internal/middleware"
	"hallmate/internal/models"
	"hallmate/internal/service"
)

// FundHandler serves the per-user emergency fund routes.
type FundHandler struct {
	fund *service.FundService
}

// NewFundHandler creates the fund handler.
func NewFundHandler(fund *service.FundService) *FundHandler {
	return &FundHandler{fund: fund}
}

func (h *FundHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req service.FundSetupInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	fund, err := h.fund.Setup(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fund)
}

func (h *FundHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.fund.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *FundHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req service.FundTxInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	fund, err := h.fund.Contribute(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fund)
}

func (h *FundHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req service.FundTxInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	fund, err := h.fund.Withdraw(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fund)
}

func (h *FundHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req service.FundGoalInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	fund, err := h.fund.UpdateGoal(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fund)
}

type transactionsResponse struct {
	Transactions []models.FundTransaction `json:"transactions"`
	Total        int                      `json:"total"`
	Page         int                      `json:"page"`
	Limit        int                      `json:"limit"`
}

func (h *FundHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	txs, total, err := h.fund.Transactions(r.Context(), middleware.GetUserID(r.Context()), page, limit)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transactionsResponse{
		Transactions: txs,
		Total:        total,
		Page:         page,
		Limit:        limit,
	})
}
