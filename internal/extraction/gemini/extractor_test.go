package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
)

func geminiPayload(t *testing.T, text string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	require.NoError(t, err)
	return raw
}

func testInput(t *testing.T) port.ExtractInput {
	t.Helper()
	date, err := domain.ParseDate("2025-03-10")
	require.NoError(t, err)
	return port.ExtractInput{
		Emails: []domain.EmailDetail{
			{MessageID: "m1", Sender: "victor@example.com", Subject: "Today's fish", BodyText: "AWB 123-4567-8901"},
		},
		TargetDate: date,
	}
}

func TestExtract_Success(t *testing.T) {
	result := `{
	  "shipments": [
	    {"awb": "123-4567-8901", "date": "2025-03-10", "supplier": "Victor",
	     "lines": [{"customer_name": "Mark", "company": "Mark's Seafood", "species": "Swordfish", "boxes": 10, "weight_lbs": 450.0}]}
	  ],
	  "anomalies": []
	}`

	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiPayload(t, result))
	}))
	defer server.Close()

	extractor := NewExtractorWithEndpoint(&config.ExtractorConfig{APIKey: "test-key"}, server.URL)
	out, err := extractor.Extract(context.Background(), testInput(t))
	require.NoError(t, err)

	require.Len(t, out.Shipments, 1)
	assert.Equal(t, domain.AWB("12345678901"), out.Shipments[0].AWB)
	assert.Equal(t, []string{"m1"}, out.Shipments[0].SourceEmailIDs)
	assert.Equal(t, "gemini-2.5-flash", out.ModelUsed)

	// Request carries the system instruction and a JSON response contract.
	require.NotNil(t, captured["systemInstruction"])
	genCfg, ok := captured["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestExtract_FencedOutput(t *testing.T) {
	fenced := "```json\n{\"shipments\": [], \"anomalies\": []}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(geminiPayload(t, fenced))
	}))
	defer server.Close()

	extractor := NewExtractorWithEndpoint(&config.ExtractorConfig{APIKey: "k"}, server.URL)
	out, err := extractor.Extract(context.Background(), testInput(t))
	require.NoError(t, err)
	assert.Empty(t, out.Shipments)
	assert.Empty(t, out.Anomalies)
}

func TestExtract_InvalidModelJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(geminiPayload(t, "I could not process the emails."))
	}))
	defer server.Close()

	extractor := NewExtractorWithEndpoint(&config.ExtractorConfig{APIKey: "k"}, server.URL)
	out, err := extractor.Extract(context.Background(), testInput(t))
	require.NoError(t, err)

	assert.Empty(t, out.Shipments)
	require.Len(t, out.Anomalies, 1)
	assert.Equal(t, domain.AnomalyMissingData, out.Anomalies[0].Type)
	assert.Equal(t, domain.SeverityError, out.Anomalies[0].Severity)
}

func TestExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor := NewExtractorWithEndpoint(&config.ExtractorConfig{APIKey: "k"}, server.URL)
	_, err := extractor.Extract(context.Background(), testInput(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestExtract_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	extractor := NewExtractorWithEndpoint(&config.ExtractorConfig{APIKey: "k"}, server.URL)
	_, err := extractor.Extract(context.Background(), testInput(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
