package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-ma-automation/internal/models"
)

const defaultListLimit = 50

// Store is the read-mostly ledger surface the dashboard needs.
type Store interface {
	Statistics(ctx context.Context) (models.Statistics, error)
	RecentApplications(ctx context.Context, limit int) ([]models.ApplicationRecord, error)
	Sessions(ctx context.Context, limit int) ([]models.SessionStats, error)
	UpdateStatus(ctx context.Context, jobID string, status models.ApplicationStatus, responseDate time.Time) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register mounts the dashboard routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/api/stats", h.GetStats)
	r.GET("/api/applications", h.GetApplications)
	r.GET("/api/sessions", h.GetSessions)
	r.PATCH("/api/applications/:jobID/status", h.UpdateApplicationStatus)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetApplications(c *gin.Context) {
	limit := queryLimit(c)
	records, err := h.store.RecentApplications(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.ApplicationRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetSessions(c *gin.Context) {
	limit := queryLimit(c)
	sessions, err := h.store.Sessions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.SessionStats{}
	}
	c.JSON(http.StatusOK, sessions)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus records an operator-observed outcome, e.g. a
// recruiter response or a rejection.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	jobID := c.Param("jobID")

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ApplicationStatus(req.Status)
	switch status {
	case models.StatusSubmitted, models.StatusResponded, models.StatusRejected, models.StatusInterview:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + req.Status})
		return
	}

	if err := h.store.UpdateStatus(c.Request.Context(), jobID, status, time.Now().UTC()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": req.Status})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 {
		return defaultListLimit
	}
	return limit
}
