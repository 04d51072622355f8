package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const referenceBody = `{
	"currency": "BRL",
	"horizonMonths": 36,
	"annualDiscountRate": 12,
	"hubs": {"lm": 0, "fm": 1, "avgArea": 3500},
	"cto": {"itemized": true, "breakdown": {"rental": 50000, "security": 15000, "cleaning": 9000, "utilities": 6000}}
}`

func newTestHandler(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), cfg, "1.2.3")
}

func post(t *testing.T, handler http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleViabilitySuccess(t *testing.T) {
	rr := post(t, newTestHandler(t, nil), "/api/viability", referenceBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request ID header")
	}

	var resp struct {
		RequestID string `json:"requestId"`
		Report    struct {
			TotalHubs  int `json:"totalHubs"`
			Series     []json.RawMessage
			Conclusion struct {
				Tier string `json:"tier"`
			} `json:"conclusion"`
		} `json:"report"`
		Duration   string `json:"duration"`
		ConfigYAML string `json:"configYaml"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.RequestID != rr.Header().Get(RequestIDHeader) {
		t.Errorf("body request ID %q does not match header %q", resp.RequestID, rr.Header().Get(RequestIDHeader))
	}
	if resp.Report.TotalHubs != 1 || resp.Report.Conclusion.Tier != "moderate" {
		t.Errorf("report = %+v", resp.Report)
	}
	if len(resp.Report.Series) != 37 {
		t.Errorf("series has %d points, expected 37", len(resp.Report.Series))
	}
	if resp.Duration == "" {
		t.Error("expected duration in response")
	}
	if !strings.HasPrefix(resp.ConfigYAML, "currency: BRL\n") {
		t.Errorf("config YAML should start with the currency key:\n%s", resp.ConfigYAML)
	}
}

func TestHandleViabilityEmptyBodyUsesDefaults(t *testing.T) {
	rr := post(t, newTestHandler(t, nil), "/api/viability", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Report struct {
			Conclusion struct {
				Applicable bool `json:"applicable"`
			} `json:"conclusion"`
		} `json:"report"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// The default itemized breakdown is empty, so the baseline is zero.
	if resp.Report.Conclusion.Applicable {
		t.Error("impact should not be applicable with an empty baseline")
	}
	if len(resp.Warnings) == 0 {
		t.Error("expected a not-applicable warning")
	}
}

func TestHandleViabilityErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Malformed JSON", `{"hubs":`, http.StatusBadRequest},
		{"Zero hubs", `{"hubs": {"lm": 0, "fm": 0}}`, http.StatusUnprocessableEntity},
		{"Horizon out of range", `{"horizonMonths": 90}`, http.StatusBadRequest},
		{"Unknown currency", `{"currency": "EUR"}`, http.StatusBadRequest},
	}

	handler := newTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, handler, "/api/viability", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp["error"] == "" || resp["requestId"] == "" {
				t.Errorf("error response = %v", resp)
			}
		})
	}
}

func TestHandleViabilityBodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetBodySizeBytes(64)

	body := `{"scenario": "` + strings.Repeat("x", 200) + `"}`
	rr := post(t, newTestHandler(t, cfg), "/api/viability", body)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleViabilityMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/viability", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleViabilityExport(t *testing.T) {
	fixed := time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)
	handler := newHandler(zap.NewNop(), nil, "", func() time.Time { return fixed })

	t.Run("xlsx", func(t *testing.T) {
		rr := post(t, handler, "/api/viability/export?format=xlsx", referenceBody)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "capex_viability_brl_20261019_1430.xlsx") {
			t.Errorf("Content-Disposition = %q", got)
		}

		f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
		if err != nil {
			t.Fatalf("response is not a workbook: %v", err)
		}
		defer func() { _ = f.Close() }()
		if len(f.GetSheetList()) != 4 {
			t.Errorf("sheets = %v", f.GetSheetList())
		}
	})

	t.Run("csv", func(t *testing.T) {
		rr := post(t, handler, "/api/viability/export?format=csv", referenceBody)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if rr.Header().Get("Content-Type") != "text/csv" {
			t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
		}
		if !strings.HasPrefix(rr.Body.String(), "Summary\n") {
			t.Errorf("unexpected CSV body start: %q", rr.Body.String()[:20])
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		rr := post(t, handler, "/api/viability/export?format=pdf", referenceBody)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rr.Code)
		}
	})
}

func TestHandleCatalog(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp catalogResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 4 || resp.Items[0].ID != "T00377" {
		t.Errorf("items = %+v", resp.Items)
	}
	if len(resp.Scenarios) != 3 || resp.Scenarios[1].Name != "optimistic" || resp.Scenarios[1].Multiplier != 0.9 {
		t.Errorf("scenarios = %+v", resp.Scenarios)
	}
	if len(resp.Categories) != 14 {
		t.Errorf("categories = %v", resp.Categories)
	}
	if resp.HorizonMonths != (horizonInfo{Default: 36, Min: 6, Max: 84, Step: 6}) {
		t.Errorf("horizon = %+v", resp.HorizonMonths)
	}
}

func TestHandleConfigExport(t *testing.T) {
	body := `{"output": {"format": "csv"}, "zeta": 1, "hubs": {"fm": 2}, "currency": "USD"}`
	rr := post(t, newTestHandler(t, nil), "/api/config/export", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	yamlText := resp["configYaml"]

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(yamlText), &node); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	mapping := node.Content[0]
	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	expected := []string{"currency", "hubs", "output", "zeta"}
	if strings.Join(keys, ",") != strings.Join(expected, ",") {
		t.Errorf("keys = %v, expected %v", keys, expected)
	}
}

func TestHandleVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t, nil).ServeHTTP(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("version = %q", resp["version"])
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://capex.example.com"}
	handler := newTestHandler(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/viability", nil)
	req.Header.Set("Origin", "https://capex.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://capex.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/viability", nil)
	req.Header.Set("Origin", "https://other.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Access-Control-Allow-Origin %q for a foreign origin", got)
	}
}
