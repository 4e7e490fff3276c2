package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hallmate/internal/httputil"
	"hallmate/internal/middleware"
	"hallmate/internal/models"
	"hallmate/internal/service"
	"hallmate/internal/storage"
)

// MealHandler serves the meal-group routes.
type MealHandler struct {
	groups *service.GroupService
	meal   *service.MealService
}

// NewMealHandler creates the meal-group handler.
func NewMealHandler(groups *service.GroupService, meal *service.MealService) *MealHandler {
	return &MealHandler{groups: groups, meal: meal}
}

func (h *MealHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	group, err := h.groups.Create(r.Context(), models.GroupKindMeal, middleware.GetEmail(r.Context()), req.Name, req.Members)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, group)
}

func (h *MealHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListMine(r.Context(), models.GroupKindMeal, middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

func (h *MealHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), models.GroupKindMeal, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *MealHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	group, err := h.groups.AddMembers(r.Context(), models.GroupKindMeal, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req.Members)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *MealHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := h.groups.Delete(r.Context(), models.GroupKindMeal, chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MealHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.GroceryItemInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	item, err := h.meal.AddItem(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *MealHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := storage.GroceryFilter{Range: dateRange(r)}
	switch r.URL.Query().Get("purchased") {
	case "true":
		v := true
		filter.Purchased = &v
	case "false":
		v := false
		filter.Purchased = &v
	}

	items, err := h.meal.ListItems(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), filter)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *MealHandler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	var req service.PurchaseInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	item, err := h.meal.PurchaseItem(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), chi.URLParam(r, "itemID"), req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

type assignDutiesRequest struct {
	Duties []service.DutyInput `json:"duties"`
}

func (h *MealHandler) AssignDuties(w http.ResponseWriter, r *http.Request) {
	var req assignDutiesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	duties, err := h.meal.AssignDuties(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req.Duties)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, duties)
}

func (h *MealHandler) ListDuties(w http.ResponseWriter, r *http.Request) {
	duties, err := h.meal.ListDuties(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), dateRange(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, duties)
}

type recordMealsRequest struct {
	Entries []service.MealEntryInput `json:"entries"`
}

func (h *MealHandler) RecordMeals(w http.ResponseWriter, r *http.Request) {
	var req recordMealsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	entries, err := h.meal.RecordMeals(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), req.Entries)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entries)
}

func (h *MealHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	filter := storage.MealEntryFilter{
		Range: dateRange(r),
		Email: r.URL.Query().Get("email"),
	}
	entries, err := h.meal.ListMeals(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), filter)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.meal.Summary(r.Context(), chi.URLParam(r, "groupID"), middleware.GetEmail(r.Context()), dateRange(r))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
