package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tunadex/internal/domain"
	"tunadex/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func payloadRouter(store *mocks.MockPayloadStore) *gin.Engine {
	r := gin.New()
	h := NewPayloadHandler(store)
	r.GET("/payloads", h.ListDates)
	r.GET("/payloads/range", h.GetRange)
	r.GET("/payloads/:date", h.GetByDate)
	r.GET("/payloads/:date/anomalies", h.GetAnomalies)
	r.GET("/payloads/:date/export.csv", h.ExportCSV)
	return r
}

func anomalousPayload(t *testing.T) *domain.DailyPayload {
	t.Helper()
	p := &domain.DailyPayload{
		Date: mustDate(t, "2025-03-10"),
		Anomalies: []domain.Anomaly{
			{Type: domain.AnomalyMissingAWB, Severity: domain.SeverityError, Description: "no AWB"},
			{Type: domain.AnomalyWeightOutlier, Severity: domain.SeverityWarning, Description: "heavy"},
		},
	}
	p.ComputeTotals()
	return p
}

func TestGetByDate(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	store.On("Load", mock.Anything, mustDate(t, "2025-03-10")).Return(anomalousPayload(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/2025-03-10", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestGetByDate_NotFound(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	store.On("Load", mock.Anything, mock.Anything).Return(nil, domain.ErrPayloadNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/2025-03-10", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAYLOAD_NOT_FOUND", resp.Error.Code)
}

func TestGetByDate_BadDate(t *testing.T) {
	store := new(mocks.MockPayloadStore)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/not-a-date", nil)
	payloadRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestGetAnomalies_SeverityFilter(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	store.On("Load", mock.Anything, mustDate(t, "2025-03-10")).Return(anomalousPayload(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/2025-03-10/anomalies?severity=ERROR", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Anomalies []domain.Anomaly `json:"anomalies"`
			Errors    int              `json:"errors"`
			Warnings  int              `json:"warnings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Anomalies, 1)
	assert.Equal(t, domain.AnomalyMissingAWB, resp.Data.Anomalies[0].Type)
	assert.Equal(t, 1, resp.Data.Errors)
	assert.Equal(t, 1, resp.Data.Warnings)
}

func TestListDates(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	store.On("ListDates", mock.Anything).Return([]domain.Date{
		mustDate(t, "2025-03-10"), mustDate(t, "2025-03-11"),
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-03-10")
	assert.Contains(t, w.Body.String(), "2025-03-11")
}

func TestGetRange(t *testing.T) {
	store := new(mocks.MockPayloadStore)
	store.On("LoadRange", mock.Anything, mustDate(t, "2025-03-10"), mustDate(t, "2025-03-12")).
		Return([]domain.DailyPayload{*anomalousPayload(t)}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/range?start=2025-03-10&end=2025-03-12", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestGetRange_EndBeforeStart(t *testing.T) {
	store := new(mocks.MockPayloadStore)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/range?start=2025-03-12&end=2025-03-10", nil)
	payloadRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_RANGE")
}

func TestExportCSV(t *testing.T) {
	boxes := 10
	weight := 1200.0
	payload := anomalousPayload(t)
	payload.Shipments = []domain.Shipment{
		{
			AWB:            domain.AWB("12345678901"),
			Date:           mustDate(t, "2025-03-10"),
			Supplier:       "victor",
			SourceEmailIDs: []string{"m1"},
			Lines: []domain.ShipmentLine{
				{CustomerName: "mark", Company: "Mark's Seafood", Species: "Swordfish", Boxes: &boxes, WeightLbs: &weight},
			},
		},
	}

	store := new(mocks.MockPayloadStore)
	store.On("Load", mock.Anything, mustDate(t, "2025-03-10")).Return(payload, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payloads/2025-03-10/export.csv", nil)
	payloadRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shipments_2025-03-10.csv")
	assert.Contains(t, w.Body.String(), "12345678901")
	assert.Contains(t, w.Body.String(), "Swordfish")
}
