package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunadex/internal/domain"
	"tunadex/internal/service"
)

// TrawlHandler triggers pipeline runs over HTTP.
type TrawlHandler struct {
	trawlService service.TrawlService
}

// NewTrawlHandler creates a new TrawlHandler.
func NewTrawlHandler(trawlService service.TrawlService) *TrawlHandler {
	return &TrawlHandler{trawlService: trawlService}
}

type runRequest struct {
	Date string `json:"date"`
}

// Run handles POST /trawl/run. An empty date runs for today.
func (h *TrawlHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}

	target := domain.Today()
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
		target = parsed
	}

	payload, err := h.trawlService.Run(c.Request.Context(), target)
	if err != nil {
		log.Printf("trawlHandler: run for %s failed: %v", target, err)
		status, code, msg := MapDomainError(err)
		RespondError(c, status, code, msg)
		return
	}
	RespondOK(c, payload)
}
