// Package handlers provides HTTP request handlers for the medicine comparison API.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/interactions"
	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
	"github.com/google/uuid"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured
const DefaultMaxBodyBytes = 64 << 10

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	analyzer      interfaces.Analyzer
	comparator    interfaces.Comparator
	validator     interfaces.InputValidator
	healthChecker interfaces.HealthChecker
	maxBodyBytes  int64
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(analyzer interfaces.Analyzer, comparator interfaces.Comparator,
	validator interfaces.InputValidator, healthChecker interfaces.HealthChecker, maxBodyBytes int64) interfaces.HTTPHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &HTTPHandlerImpl{
		analyzer:      analyzer,
		comparator:    comparator,
		validator:     validator,
		healthChecker: healthChecker,
		maxBodyBytes:  maxBodyBytes,
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	RespondWithJSON(w, code, payload)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithError(w, code, message)
}

// RespondWithJSON writes payload as JSON with the given status code
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes {"error", "message", "code"}
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// decodeJSON reads a bounded JSON body into dst, writing the error response itself.
// Returns false when the request was rejected.
func (h *HTTPHandlerImpl) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		h.RespondWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.RespondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body too large. Maximum allowed size is %d bytes", maxErr.Limit))
		case errors.Is(err, io.EOF):
			h.RespondWithError(w, http.StatusBadRequest, "Request body is required")
		default:
			h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		}
		return false
	}

	if decoder.More() {
		h.RespondWithError(w, http.StatusBadRequest, "Request body must contain a single JSON object")
		return false
	}
	return true
}

// validate checks one input field, writing a 400 on failure
func (h *HTTPHandlerImpl) validate(w http.ResponseWriter, r *http.Request, field, value string) bool {
	if err := h.validator.ValidateMedicineText(value); err != nil {
		logging.Warn("Rejected medicine input",
			"field", field,
			"error", err,
			"remote_addr", r.RemoteAddr,
		)
		h.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", field, err.Error()))
		return false
	}
	return true
}

// AnalyzeMedicine analyzes a single description
func (h *HTTPHandlerImpl) AnalyzeMedicine(w http.ResponseWriter, r *http.Request) {
	var req entities.AnalyzeRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, r, "text", req.Text) {
		return
	}

	h.RespondWithJSON(w, http.StatusOK, h.analyzer.Analyze(r.Context(), req.Text))
}

// CompareMedicines compares a Chinese and a Western medicine description
func (h *HTTPHandlerImpl) CompareMedicines(w http.ResponseWriter, r *http.Request) {
	var req entities.CompareRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, r, "chineseMedicine", req.ChineseMedicine) ||
		!h.validate(w, r, "westernMedicine", req.WesternMedicine) {
		return
	}

	start := time.Now()
	result := h.comparator.Compare(r.Context(), req.ChineseMedicine, req.WesternMedicine)

	response := entities.CompareResponse{
		ID:              uuid.NewString(),
		ChineseMedicine: req.ChineseMedicine,
		WesternMedicine: req.WesternMedicine,
		Result:          result,
	}

	logging.Info("Comparison served",
		"id", response.ID,
		"conflicts", len(result.Comparison.IngredientConflicts)+len(result.Comparison.EffectInteractions),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	h.RespondWithJSON(w, http.StatusOK, response)
}

// ServeGuide returns the static medication guide
func (h *HTTPHandlerImpl) ServeGuide(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600") // 1 hour
	h.RespondWithJSON(w, http.StatusOK, interactions.GetGuide())
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, details, httpStatus := h.healthChecker.HealthCheck()

	response := HealthResponse{
		Status: status,
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
