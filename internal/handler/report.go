package handler

import (
	"errors"
	"net/http"

	"report-desk/internal/logger"
	"report-desk/internal/render"
	"report-desk/internal/report"
	"report-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	store *service.ReportStore
	auth  *service.AuthService
}

func NewReportHandler(store *service.ReportStore, auth *service.AuthService) *ReportHandler {
	return &ReportHandler{store: store, auth: auth}
}

// GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.store.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.Error("reports.list_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	if reports == nil {
		reports = []report.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

// POST /api/reports saves an aggregate: insert without id (capped),
// update in place with one.
func (h *ReportHandler) Save(c *gin.Context) {
	var r report.Report
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r.UserID = c.GetString("user_id")

	if r.ID != "" && !h.owns(c, r.ID) {
		return
	}
	if err := h.store.Upsert(c.Request.Context(), &r); err != nil {
		h.saveError(c, err)
		return
	}
	logger.Info("report.saved", "report_id", r.ID, "uid", r.UserID, "date", r.Date)
	c.JSON(http.StatusOK, r)
}

// DELETE /api/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	if !h.owns(c, c.Param("id")) {
		return
	}
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		logger.Error("report.delete_failed", "report_id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/reports/:id/render returns the themed document for a stored
// report without opening an editing session.
func (h *ReportHandler) Render(c *gin.Context) {
	r, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		return
	}
	if r.UserID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.Document(r)))
}

// owns resolves a stored report and checks it belongs to the calling
// user, writing the error response itself when it does not.
func (h *ReportHandler) owns(c *gin.Context, reportID string) bool {
	existing, err := h.store.Get(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch failed"})
		}
		return false
	}
	if existing.UserID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}

func (h *ReportHandler) saveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLimitReached):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Storage Limit Reached. Max 30 reports allowed."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("report.save_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
	}
}
