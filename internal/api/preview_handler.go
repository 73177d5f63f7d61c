/*
Package api implements the HTTP surface over the ingest/engine/reports/
sync packages: multipart CSV upload, preview recalculation, and the
Danløn connection and sync endpoints.
*/
package api

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/cache"
	"backend/internal/engine"
	"backend/internal/errors"
	"backend/internal/ingest"
	"backend/internal/models"
)

// PreviewHandler drives C1/C3-C6: turning uploaded CSV files into a
// cached preview session, and recomputing it after manual absence
// overrides.
type PreviewHandler struct {
	cache *cache.Store
	log   *logrus.Logger
}

// NewPreviewHandler creates a PreviewHandler.
func NewPreviewHandler(store *cache.Store, log *logrus.Logger) *PreviewHandler {
	return &PreviewHandler{cache: store, log: log}
}

// previewResponse is the shape common to the preview and mark-absence
// endpoints per §6.
type previewResponse struct {
	SessionID           string                 `json:"session_id"`
	Daily               []models.DailyOutput   `json:"daily"`
	Weekly              []models.WeeklySummary `json:"weekly"`
	CallOutEligibleDays []engine.EligibleDay   `json:"call_out_eligible_days"`
	TotalRecords        int                    `json:"total_records"`
	TotalWeeks          int                    `json:"total_weeks"`
}

func toPreviewResponse(sessionID string, result engine.Result) previewResponse {
	return previewResponse{
		SessionID:           sessionID,
		Daily:               result.Daily,
		Weekly:              result.Weekly,
		CallOutEligibleDays: result.CallOutEligibleDays,
		TotalRecords:        len(result.Records),
		TotalWeeks:          len(result.Weekly),
	}
}

// Preview handles POST /api/preview: parses every uploaded file through
// C1, runs the full C3-C6 pipeline, and caches the result.
func (h *PreviewHandler) Preview(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, errors.ErrInvalidInput.WithMessage("expected multipart form"))
		return
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		respondError(c, errors.ErrInvalidInput.WithMessage("no files uploaded"))
		return
	}
	employeeType := models.EmployeeType(c.PostForm("employee_type"))

	var allRecords []models.DailyRecord
	for _, fh := range files {
		records, err := parseUploadedFile(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		allRecords = append(allRecords, records...)
	}
	_ = employeeType // accepted from the form; not attached to any record or output

	result, err := engine.Run(allRecords)
	if err != nil {
		respondError(c, err)
		return
	}

	sessionID := h.cache.Put(result)
	c.JSON(http.StatusOK, toPreviewResponse(sessionID, result))
}

// parseUploadedFile reads one multipart file and parses it with C1,
// falling back to the filename (extension stripped) as the worker name
// when the worker-name field on the CSV's second line is blank.
func parseUploadedFile(fh *multipart.FileHeader) ([]models.DailyRecord, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput)
	}
	defer f.Close()

	raw, err := ingest.ReadAll(f)
	if err != nil {
		return nil, err
	}

	fallbackName := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	return ingest.ParseCSV(raw, fallbackName)
}

// absenceSelection is one entry of the mark-absence form's
// DD-MM-YYYY->{Vacation,Sick,Kursus,None} map.
type absenceSelection = models.AbsentType

// MarkAbsence handles POST /api/mark-absence/{session_id}: applies
// manual absence overrides onto the cached session's raw records and
// reruns the pipeline from that point forward.
func (h *PreviewHandler) MarkAbsence(c *gin.Context) {
	sessionID := c.Param("session_id")
	session, ok := h.cache.Get(sessionID)
	if !ok {
		respondError(c, errors.ErrSessionNotFound)
		return
	}

	var selections map[string]absenceSelection
	if err := bindJSONForm(c, "absence_selections", &selections); err != nil {
		respondError(c, err)
		return
	}

	records := session.Records
	for i, r := range records {
		if absentType, ok := selections[r.DateString()]; ok {
			records[i].AbsentType = absentType
		}
	}

	result, err := engine.Run(records)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.Replace(sessionID, result)
	c.JSON(http.StatusOK, toPreviewResponse(sessionID, result))
}

// bindJSONForm unmarshals a JSON-encoded form field into target.
func bindJSONForm(c *gin.Context, field string, target interface{}) error {
	raw := c.PostForm(field)
	if raw == "" {
		return errors.ErrInvalidInput.WithMessage("missing form field: " + field)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return errors.ErrInvalidInput.WithMessage("malformed " + field + ": " + err.Error())
	}
	return nil
}
