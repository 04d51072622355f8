package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/capex-viability/internal/config"
	"github.com/iwvelando/capex-viability/internal/viability"
	"github.com/iwvelando/capex-viability/pkg/capex"
	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/cto"
	"github.com/iwvelando/capex-viability/pkg/output"
	"github.com/iwvelando/capex-viability/pkg/report"
	"github.com/iwvelando/capex-viability/pkg/validation"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the per-request identifier on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the viability API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	return newHandler(logger, cfg, version, time.Now)
}

func newHandler(logger *zap.Logger, cfg *Config, version string, now func() time.Time) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxBodySize := cfg.BodySizeBytes()
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion, now: now}

	mux := http.NewServeMux()

	// Full recomputation from a form snapshot
	mux.HandleFunc("/api/viability", h.handleViability)

	// Spreadsheet or CSV download of the same computation
	mux.HandleFunc("/api/viability/export", h.handleViabilityExport)

	// Defaults used to populate the form
	mux.HandleFunc("/api/catalog", h.handleCatalog)

	// Config serialization endpoint for form downloads
	mux.HandleFunc("/api/config/export", h.handleConfigExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
	})

	return c.Handler(withRequestID(mux))
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type viabilityResponse struct {
	RequestID  string        `json:"requestId"`
	Report     report.Report `json:"report"`
	Warnings   []string      `json:"warnings,omitempty"`
	Duration   string        `json:"duration"`
	ConfigYAML string        `json:"configYaml,omitempty"`
}

type catalogResponse struct {
	Currency      string                    `json:"currency"`
	ExchangeRate  float64                   `json:"exchangeRate"`
	Items         []catalogItem             `json:"items"`
	Scenarios     []scenarioInfo            `json:"scenarios"`
	Categories    []string                  `json:"categories"`
	Installation  config.InstallationConfig `json:"installation"`
	HorizonMonths horizonInfo               `json:"horizonMonths"`
}

type catalogItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	QtyPerHub   float64 `json:"qtyPerHub"`
	UnitPrice   float64 `json:"unitPrice"`
}

type scenarioInfo struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

type horizonInfo struct {
	Default int `json:"default"`
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
}

func (h *handler) handleViability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleViability"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	rep, warnings, configBytes, ok := h.compute(w, r, op)
	if !ok {
		return
	}

	elapsed := time.Since(start)
	response := viabilityResponse{
		RequestID:  requestID(r),
		Report:     rep,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("viability computed",
		zap.String("op", op),
		zap.String("requestId", response.RequestID),
		zap.Int("hubs", rep.TotalHubs),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleViabilityExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleViabilityExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	exportFormat := r.URL.Query().Get("format")
	if exportFormat == "" {
		exportFormat = constants.ExportFormatXLSX
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	rep, _, _, ok := h.compute(w, r, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.Export(&buf, rep, exportFormat); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to build export: %v", err), op)
		return
	}

	filename := report.Filename(rep.Currency, rep.GeneratedAt, exportFormat)
	w.Header().Set("Content-Type", output.ContentType(exportFormat))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export", zap.String("op", op), zap.Error(err))
		return
	}

	h.logger.Info("report exported",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.String("filename", filename),
	)
}

// compute decodes the request body and runs the full chain. On failure the
// error response is already written and ok is false.
func (h *handler) compute(w http.ResponseWriter, r *http.Request, op string) (rep report.Report, warnings []string, configBytes []byte, ok bool) {
	configMap, err := h.decodeBody(w, r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return report.Report{}, nil, nil, false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return report.Report{}, nil, nil, false
	}

	configBytes, err = marshalOrderedConfigYAML(configMap)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return report.Report{}, nil, nil, false
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes), "yaml")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return report.Report{}, nil, nil, false
	}

	in, warnings, err := cfg.ToInput()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return report.Report{}, nil, nil, false
	}

	result, err := viability.Compute(h.logger, in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, capex.ErrNoHubs) {
			status = http.StatusUnprocessableEntity
		}
		h.respondError(w, r, status, err.Error(), op)
		return report.Report{}, nil, nil, false
	}

	return report.Build(result, h.now()), append(warnings, result.Warnings...), configBytes, true
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]interface{}), nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, nil
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	defaults, err := config.Default()
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error(), "server.handleCatalog")
		return
	}

	response := catalogResponse{
		Currency:     defaults.Currency,
		ExchangeRate: defaults.ExchangeRate,
		Installation: defaults.Installation,
		HorizonMonths: horizonInfo{
			Default: defaults.HorizonMonths,
			Min:     constants.MinHorizonMonths,
			Max:     constants.MaxHorizonMonths,
			Step:    constants.HorizonStepMonths,
		},
	}
	for _, item := range capex.DefaultCatalog() {
		response.Items = append(response.Items, catalogItem{
			ID:          item.ID,
			Description: item.Description,
			QtyPerHub:   item.QtyPerHub,
			UnitPrice:   item.UnitPrice,
		})
	}
	for _, s := range capex.Scenarios {
		response.Scenarios = append(response.Scenarios, scenarioInfo{Name: s.String(), Multiplier: s.Multiplier()})
	}
	for _, c := range cto.Categories() {
		response.Categories = append(response.Categories, c.String())
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, err := h.decodeBody(w, r)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder lists top-level keys in the order a person would read them.
var configKeyOrder = []string{
	"currency", "exchangeRate", "horizonMonths", "annualDiscountRate", "scenario",
	"hubs", "cto", "catalog", "installation", "logging", "output", "export",
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("viability request failed",
		zap.String("op", op),
		zap.String("requestId", requestID(r)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg, "requestId": requestID(r)})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
