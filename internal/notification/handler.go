package notification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/member/{memberId}", h.List)
	r.Get("/member/{memberId}/unread-count", h.GetUnreadCount)
	r.Post("/member/{memberId}/read-all", h.MarkAllAsRead)
	r.Post("/{id}/read", h.MarkAsRead)

	return r
}

// NotificationResponse represents the response for a notification
type NotificationResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id,omitempty"`
	Type      string `json:"type"`
	EntityID  string `json:"entity_id,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// MarkAsReadRequest names the member acknowledging the notification
type MarkAsReadRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

func toResponse(n *Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		GroupID:   n.GroupID,
		Type:      n.Type,
		EntityID:  n.EntityID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// List handles GET /notifications/member/{memberId}
// @Summary      List notifications
// @Description  Get a paginated list of a member's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        memberId path string true "Member ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Param        unread_only query bool false "Only unread notifications"
// @Success      200 {object} response.APIResponse{data=[]NotificationResponse}
// @Router       /notifications/member/{memberId} [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	notifications, total, err := h.service.ListByMemberID(r.Context(), memberID, page, perPage, unreadOnly)
	if err != nil {
		response.InternalError(w, "Failed to list notifications")
		return
	}

	notificationResponses := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		notificationResponses[i] = toResponse(n)
	}

	response.JSONWithMeta(w, http.StatusOK, notificationResponses, response.NewMeta(page, perPage, total))
}

// GetUnreadCount handles GET /notifications/member/{memberId}/unread-count
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Param        memberId path string true "Member ID"
// @Success      200 {object} response.APIResponse
// @Router       /notifications/member/{memberId}/unread-count [get]
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.GetUnreadCount(r.Context(), chi.URLParam(r, "memberId"))
	if err != nil {
		response.InternalError(w, "Failed to get unread count")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkAsRead handles POST /notifications/{id}/read
// @Summary      Mark notification as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID"
// @Param        request body MarkAsReadRequest true "Recipient"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	var req MarkAsReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MemberID == "" {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), id.String(), req.MemberID); err != nil {
		switch {
		case errors.Is(err, ErrNotificationNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotRecipient):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to mark notification as read")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllAsRead handles POST /notifications/member/{memberId}/read-all
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Param        memberId path string true "Member ID"
// @Success      200 {object} response.APIResponse
// @Router       /notifications/member/{memberId}/read-all [post]
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAllAsRead(r.Context(), chi.URLParam(r, "memberId")); err != nil {
		response.InternalError(w, "Failed to mark all notifications as read")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}
