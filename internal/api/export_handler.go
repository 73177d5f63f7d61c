package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/cache"
	"backend/internal/engine"
	"backend/internal/errors"
	"backend/internal/models"
	"backend/internal/ratetable"
	"backend/internal/reports"
)

// ExportHandler drives C15: rendering a cached preview session as CSV,
// XLSX, or PDF.
type ExportHandler struct {
	cache *cache.Store
	rates *ratetable.Table
	log   *logrus.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(store *cache.Store, rates *ratetable.Table, log *logrus.Logger) *ExportHandler {
	return &ExportHandler{cache: store, rates: rates, log: log}
}

// ExportCSV handles POST /api/export/{session_id}.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	sessionID := c.Param("session_id")
	session, ok := h.cache.Get(sessionID)
	if !ok {
		respondError(c, errors.ErrSessionNotFound)
		return
	}

	format := reports.OutputFormat(c.PostForm("output_format"))
	daily := session.Daily
	if raw := c.PostForm("call_out_selections"); raw != "" {
		var selections map[string]bool
		if err := json.Unmarshal([]byte(raw), &selections); err != nil {
			respondError(c, errors.ErrInvalidInput.WithMessage("malformed call_out_selections: "+err.Error()))
			return
		}
		applied, err := engine.ApplyCallOutSelections(daily, selections, h.rates)
		if err != nil {
			respondError(c, err)
			return
		}
		daily = applied
	}

	data, err := reports.RenderCSV(format, daily, session.Weekly, h.rates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s-%s.csv"`, sessionID, format))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX handles GET /api/export/{session_id}/xlsx.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	sessionID := c.Param("session_id")
	session, ok := h.cache.Get(sessionID)
	if !ok {
		respondError(c, errors.ErrSessionNotFound)
		return
	}

	data, err := reports.RenderXLSX(session.Daily, h.rates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s.xlsx"`, sessionID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportPDF handles GET /api/export/{session_id}/pdf?worker=.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	sessionID := c.Param("session_id")
	session, ok := h.cache.Get(sessionID)
	if !ok {
		respondError(c, errors.ErrSessionNotFound)
		return
	}

	weekly := session.Weekly
	if worker := c.Query("worker"); worker != "" {
		weekly = filterWeeklyByWorker(session.Weekly, worker)
	}

	data, err := reports.RenderPDF(weekly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s.pdf"`, sessionID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// filterWeeklyByWorker returns only the rows belonging to worker.
func filterWeeklyByWorker(weekly []models.WeeklySummary, worker string) []models.WeeklySummary {
	var filtered []models.WeeklySummary
	for _, w := range weekly {
		if w.WorkerName == worker {
			filtered = append(filtered, w)
		}
	}
	return filtered
}
