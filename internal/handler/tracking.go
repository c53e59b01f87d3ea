package handler

import (
	"net/http"
	"strconv"

	"digitask/internal/apierror"
	"digitask/internal/dto"
	"digitask/internal/middleware"
	"digitask/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TrackingHandler struct {
	tracking service.TrackingService
}

func NewTrackingHandler(tracking service.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

// RecordSample handles POST /api/tracking/location. The authenticated user's
// own position is updated; the response echoes the broadcast payload.
func (h *TrackingHandler) RecordSample(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}

	var req dto.LocationSampleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	broadcast, err := h.tracking.RecordSample(c.Request.Context(), userID, *req.Latitude, *req.Longitude)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, broadcast)
}

// SetPresence handles POST /api/tracking/presence (session start/end).
func (h *TrackingHandler) SetPresence(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}

	var req dto.PresenceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.tracking.SetOnline(c.Request.Context(), userID, *req.IsOnline); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_online": *req.IsOnline})
}

// LiveMap handles GET /api/tracking/live-map (dispatcher/admin).
func (h *TrackingHandler) LiveMap(c *gin.Context) {
	resp, err := h.tracking.LiveMap(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/tracking/history/:user_id?hours=N (default 1).
func (h *TrackingHandler) History(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid user id"))
		return
	}

	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "1"))
	points, err := h.tracking.History(c.Request.Context(), userID, hours)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Purge handles POST /api/tracking/purge (admin). The cron covers routine
// retention; this endpoint exists for manual sweeps.
func (h *TrackingHandler) Purge(c *gin.Context) {
	deleted, err := h.tracking.PurgeHistory(c.Request.Context(), 0) // 0 = default retention
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PurgeResponse{Deleted: deleted})
}
