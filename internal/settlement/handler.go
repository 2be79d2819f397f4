package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for balances, plans and settlements
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	// Group-based views
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/balances", h.GetBalances)
	r.Get("/group/{groupId}/plan", h.GetPlan)

	return r
}

func uuidParam(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	if ve, ok := split.AsValidationError(err); ok {
		response.ValidationFailed(w, ve.Code, err.Error())
		return
	}
	switch {
	case errors.Is(err, ErrSettlementNotFound), errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrSelfSettlement), errors.Is(err, group.ErrMemberNotFound):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Create handles POST /settlements
// @Summary      Record a settlement
// @Description  Record that one member paid another directly
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if _, err := uuid.Parse(req.GroupID); err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlement, err := h.service.RecordSettlement(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to record settlement")
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get settlement")
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements by group
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := uuidParam(r, "groupId")
	if !ok {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	settlements, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	settlementResponses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		settlementResponses[i] = s.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, settlementResponses, response.NewMeta(page, perPage, total))
}

// GetBalances handles GET /settlements/group/{groupId}/balances
// @Summary      Get group balances
// @Description  Net balance of every member. Positive means the group owes the member.
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/balances [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID, ok := uuidParam(r, "groupId")
	if !ok {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GetBalances(r.Context(), groupID)
	if err != nil {
		h.writeError(w, err, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balancesToResponse(balances))
}

// GetPlan handles GET /settlements/group/{groupId}/plan
// @Summary      Get settlement plan
// @Description  A short list of payments that settles every balance in the group
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=PlanResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/plan [get]
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	groupID, ok := uuidParam(r, "groupId")
	if !ok {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, transfers, err := h.service.GetPlan(r.Context(), groupID)
	if err != nil {
		h.writeError(w, err, "Failed to compute settlement plan")
		return
	}

	response.JSON(w, http.StatusOK, planToResponse(groupID, balances, transfers))
}

// Delete handles DELETE /settlements/{id}
// @Summary      Delete a settlement
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	if err := h.service.DeleteSettlement(r.Context(), id); err != nil {
		h.writeError(w, err, "Failed to delete settlement")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Settlement deleted successfully"})
}
