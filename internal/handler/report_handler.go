package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tunadex/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily handles GET /reports/daily/:date
func (h *ReportHandler) Daily(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	r, err := h.reportService.Daily(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	h.respond(c, r)
}

// Weekly handles GET /reports/weekly/:date, reporting the week containing
// the date.
func (h *ReportHandler) Weekly(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	r, err := h.reportService.Weekly(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	h.respond(c, r)
}

// Monthly handles GET /reports/monthly/:date, reporting the month
// containing the date.
func (h *ReportHandler) Monthly(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}
	r, err := h.reportService.Monthly(c.Request.Context(), date)
	if err != nil {
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	h.respond(c, r)
}

// respond honors the format query parameter: json (default), markdown, or
// html.
func (h *ReportHandler) respond(c *gin.Context, r *service.Report) {
	switch c.Query("format") {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(r.Markdown))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(r.HTML))
	default:
		RespondOK(c, r)
	}
}
