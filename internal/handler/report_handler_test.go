package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunadex/internal/domain"
	"tunadex/internal/service"
	"tunadex/mocks"
)

func reportRouter(svc *mocks.MockReportService, trawl *mocks.MockTrawlService) *gin.Engine {
	r := gin.New()
	rh := NewReportHandler(svc)
	r.GET("/reports/daily/:date", rh.Daily)
	r.GET("/reports/weekly/:date", rh.Weekly)
	r.GET("/reports/monthly/:date", rh.Monthly)
	if trawl != nil {
		th := NewTrawlHandler(trawl)
		r.POST("/trawl/run", th.Run)
	}
	return r
}

func sampleReport(t *testing.T) *service.Report {
	t.Helper()
	return &service.Report{
		Type:     "daily",
		Start:    mustDate(t, "2025-03-10"),
		End:      mustDate(t, "2025-03-10"),
		Markdown: "# TunaDex Daily Report - 2025-03-10",
		HTML:     "<html><body>report</body></html>",
	}
}

func TestReportDaily_JSON(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Daily", mock.Anything, mustDate(t, "2025-03-10")).Return(sampleReport(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/daily/2025-03-10", nil)
	reportRouter(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "TunaDex Daily Report")
}

func TestReportDaily_MarkdownFormat(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Daily", mock.Anything, mock.Anything).Return(sampleReport(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/daily/2025-03-10?format=markdown", nil)
	reportRouter(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Equal(t, "# TunaDex Daily Report - 2025-03-10", w.Body.String())
}

func TestReportDaily_HTMLFormat(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Daily", mock.Anything, mock.Anything).Return(sampleReport(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/daily/2025-03-10?format=html", nil)
	reportRouter(svc, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestReportDaily_NotFound(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Daily", mock.Anything, mock.Anything).Return(nil, domain.ErrPayloadNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/daily/2025-03-10", nil)
	reportRouter(svc, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportWeeklyAndMonthly(t *testing.T) {
	svc := new(mocks.MockReportService)
	svc.On("Weekly", mock.Anything, mustDate(t, "2025-03-12")).Return(sampleReport(t), nil)
	svc.On("Monthly", mock.Anything, mustDate(t, "2025-03-12")).Return(sampleReport(t), nil)

	for _, path := range []string{"/reports/weekly/2025-03-12", "/reports/monthly/2025-03-12"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		reportRouter(svc, nil).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	svc.AssertExpectations(t)
}

func TestTrawlRunEndpoint(t *testing.T) {
	trawl := new(mocks.MockTrawlService)
	payload := &domain.DailyPayload{Date: mustDate(t, "2025-03-10")}
	payload.ComputeTotals()
	trawl.On("Run", mock.Anything, mustDate(t, "2025-03-10")).Return(payload, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trawl/run", strings.NewReader(`{"date": "2025-03-10"}`))
	req.Header.Set("Content-Type", "application/json")
	reportRouter(new(mocks.MockReportService), trawl).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	trawl.AssertExpectations(t)
}

func TestTrawlRunEndpoint_BadDate(t *testing.T) {
	trawl := new(mocks.MockTrawlService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trawl/run", strings.NewReader(`{"date": "garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	reportRouter(new(mocks.MockReportService), trawl).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	trawl.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}
