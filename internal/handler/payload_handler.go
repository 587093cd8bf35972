package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tunadex/internal/csvexport"
	"tunadex/internal/domain"
	"tunadex/internal/port"
)

// PayloadHandler serves persisted daily payloads to the dashboard.
type PayloadHandler struct {
	store port.PayloadStore
}

// NewPayloadHandler creates a new PayloadHandler.
func NewPayloadHandler(store port.PayloadStore) *PayloadHandler {
	return &PayloadHandler{store: store}
}

// ListDates handles GET /payloads
func (h *PayloadHandler) ListDates(c *gin.Context) {
	dates, err := h.store.ListDates(c.Request.Context())
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, gin.H{"dates": dates})
}

// GetByDate handles GET /payloads/:date
func (h *PayloadHandler) GetByDate(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	payload, err := h.store.Load(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, payload)
}

// GetAnomalies handles GET /payloads/:date/anomalies
func (h *PayloadHandler) GetAnomalies(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	payload, err := h.store.Load(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}

	severity := c.Query("severity")
	anomalies := payload.Anomalies
	if severity != "" {
		filtered := make([]domain.Anomaly, 0, len(anomalies))
		for _, a := range anomalies {
			if string(a.Severity) == severity {
				filtered = append(filtered, a)
			}
		}
		anomalies = filtered
	}

	RespondOK(c, gin.H{
		"date":      payload.Date,
		"anomalies": anomalies,
		"errors":    payload.CountBySeverity(domain.SeverityError),
		"warnings":  payload.CountBySeverity(domain.SeverityWarning),
	})
}

// ExportCSV handles GET /payloads/:date/export.csv
func (h *PayloadHandler) ExportCSV(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	payload, err := h.store.Load(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename(date)+`"`)
	c.Writer.WriteHeader(http.StatusOK)

	_, _ = c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WritePayload(payload); err != nil {
		return
	}
	w.Flush()
}

// GetRange handles GET /payloads/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PayloadHandler) GetRange(c *gin.Context) {
	start, err := domain.ParseDate(c.Query("start"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "start must be YYYY-MM-DD")
		return
	}
	end, err := domain.ParseDate(c.Query("end"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		RespondError(c, http.StatusBadRequest, "INVALID_RANGE", "end must not precede start")
		return
	}

	payloads, err := h.store.LoadRange(c.Request.Context(), start, end)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, gin.H{"payloads": payloads})
}
