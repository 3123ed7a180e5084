package eventrsvp

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rahulpatwa/community-events-backend/middleware"
)

// Command actions accepted by the RSVP façade. The set is closed:
// anything else is rejected before touching the service.
const (
	actionConfirm       = "confirm"
	actionWaitlist      = "waitlist"
	actionCancel        = "cancel"
	actionCheckIn       = "check-in"
	actionNoShow        = "no-show"
	actionSweepWaitlist = "sweep-waitlist"
	actionFeedback      = "feedback"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

type manageRSVPRequest struct {
	Action       string `json:"action"`
	TargetUserID *uint  `json:"targetUserId"`
	Rating       *int   `json:"rating"`
	Comment      string `json:"comment"`
}

func parseEventID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}

func respondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if de, ok := AsDomainError(err); ok {
		c.JSON(status, gin.H{"error": de.Message, "code": de.Code})
		return
	}
	log.Printf("❌ RSVP operation failed: %v", err)
	c.JSON(status, gin.H{"error": "internal server error"})
}

// ============================
// 📊 GET /events/:id/rsvp

// GetEventRSVPs returns the organizer dashboard: every RSVP, the
// attendance summary, feedback and aggregate meta.
func (h *Handler) GetEventRSVPs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := parseEventID(c, "id")
	if !ok {
		return
	}

	overview, err := h.Service.Overview(c.Request.Context(), eventID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ============================
// 🎯 POST /events/:id/rsvp

// ManageRSVP dispatches one attendance command and responds with the
// refreshed dashboard payload.
func (h *Handler) ManageRSVP(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := parseEventID(c, "id")
	if !ok {
		return
	}

	var req manageRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	ctx := c.Request.Context()
	ip := middleware.GetIPFromContext(c)
	extras := gin.H{}

	var err error
	switch req.Action {
	case actionConfirm:
		if req.TargetUserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetUserId is required"})
			return
		}
		var exceeded bool
		exceeded, err = h.Service.Confirm(ctx, eventID, *req.TargetUserID, userID, ip)
		if exceeded {
			extras["capacityExceeded"] = true
		}

	case actionWaitlist:
		if req.TargetUserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetUserId is required"})
			return
		}
		err = h.Service.Waitlist(ctx, eventID, *req.TargetUserID, userID, ip)

	case actionCancel:
		if req.TargetUserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetUserId is required"})
			return
		}
		err = h.Service.Cancel(ctx, eventID, *req.TargetUserID, userID, ip)

	case actionCheckIn:
		if req.TargetUserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetUserId is required"})
			return
		}
		err = h.Service.CheckIn(ctx, eventID, *req.TargetUserID, userID, ip)

	case actionNoShow:
		if req.TargetUserID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetUserId is required"})
			return
		}
		err = h.Service.MarkNoShow(ctx, eventID, *req.TargetUserID, userID, ip)

	case actionSweepWaitlist:
		var promoted int
		promoted, err = h.Service.SweepWaitlist(ctx, eventID, userID, ip)
		if err == nil {
			extras["promoted"] = promoted
		}

	case actionFeedback:
		if req.Rating == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
			return
		}
		subjectID := userID
		if req.TargetUserID != nil {
			subjectID = *req.TargetUserID
		}
		err = h.Service.UpsertFeedback(ctx, eventID, subjectID, *req.Rating, req.Comment, userID, ip)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + req.Action})
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}

	overview, err := h.Service.snapshot(ctx, eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"success":  true,
		"action":   req.Action,
		"rsvps":    overview.Rsvps,
		"summary":  overview.Summary,
		"feedback": overview.Feedback,
		"meta":     overview.Meta,
	}
	for k, v := range extras {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

// ============================
// 🙋 Participant self-service routes

// JoinEvent handles POST /event-rsvps/:eventID.
func (h *Handler) JoinEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := parseEventID(c, "eventID")
	if !ok {
		return
	}

	status, err := h.Service.Join(c.Request.Context(), eventID, userID, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "RSVP recorded", "status": status})
}

// LeaveEvent handles DELETE /event-rsvps/:eventID.
func (h *Handler) LeaveEvent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := parseEventID(c, "eventID")
	if !ok {
		return
	}

	if err := h.Service.Leave(c.Request.Context(), eventID, userID, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "RSVP cancelled"})
}

// LeaveWaitlist handles DELETE /event-rsvps/:eventID/waitlist.
func (h *Handler) LeaveWaitlist(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := parseEventID(c, "eventID")
	if !ok {
		return
	}

	if err := h.Service.LeaveWaitlist(c.Request.Context(), eventID, userID, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from waitlist"})
}

// GetMyRSVPs handles GET /event-rsvps/my.
func (h *Handler) GetMyRSVPs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	rsvps, err := h.Service.MyRSVPs(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rsvps})
}
