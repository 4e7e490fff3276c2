package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hallmate/internal/httputil"
	"hallmate/internal/middleware"
	"hallmate/internal/models"
	"hallmate/internal/service"
)

// SplitHandler serves the split-group routes.
type SplitHandler struct {
	groups *service.GroupService
	split  *service.SplitService
}

// NewSplitHandler creates the split-group handler.
func NewSplitHandler(groups *service.GroupService, split *service.SplitService) *SplitHandler {
	return &SplitHandler{groups: groups, split: split}
}

type createGroupRequest struct {
	Name    string                `json:"name"`
	Members []service.MemberInput `json:"members"`
}

type addMembersRequest struct {
	Members []service.MemberInput `json:"members"`
}

func (h *SplitHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	group, err := h.groups.Create(r.Context(), models.GroupKindSplit, middleware.GetEmail(r.Context()), req.Name, req.Members)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, group)
}

func (h *SplitHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListMine(r.Context(), models.GroupKindSplit, middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

func (h *SplitHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), models.GroupKindSplit, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *SplitHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	group, err := h.groups.AddMembers(r.Context(), models.GroupKindSplit, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req.Members)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *SplitHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := h.groups.Delete(r.Context(), models.GroupKindSplit, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SplitHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var req service.ExpenseInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	expense, err := h.split.AddExpense(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, expense)
}

func (h *SplitHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.split.ListExpenses(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), dateRange(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, expenses)
}

func (h *SplitHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.split.DeleteExpense(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), chi.URLParam(r, "expenseID"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SplitHandler) RecordSettlement(w http.ResponseWriter, r *http.Request) {
	var req service.SettlementInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	settlement, err := h.split.RecordSettlement(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, settlement)
}

func (h *SplitHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.split.ListSettlements(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), dateRange(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settlements)
}

func (h *SplitHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.split.Summary(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), dateRange(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
