package api

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/nirbhay18/gutenberg/core/blocks"
	coreerrors "github.com/nirbhay18/gutenberg/core/errors"
	"github.com/nirbhay18/gutenberg/core/fingerprint"
	"github.com/nirbhay18/gutenberg/core/parser"
	"github.com/nirbhay18/gutenberg/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ParseRequest is the request body for parsing a document.
type ParseRequest struct {
	Content string `json:"content"`
}

// ParseResult is the result of parsing a document. Fingerprint is the
// BLAKE3 digest of the source document, so callers can correlate results
// with the content they submitted.
type ParseResult struct {
	Blocks      []*blocks.Block `json:"blocks"`
	Total       int             `json:"total"`
	Invalid     int             `json:"invalid"`
	Duration    string          `json:"duration"`
	Fingerprint string          `json:"fingerprint"`
}

// SerializeRequest is the request body for serializing blocks.
type SerializeRequest struct {
	Blocks []*blocks.Block `json:"blocks"`
}

// SerializeResult is the result of a serialization.
type SerializeResult struct {
	Content     string `json:"content"`
	Fingerprint string `json:"fingerprint"`
}

// TypeInfo describes a registered block type.
type TypeInfo struct {
	Name       string   `json:"name"`
	Title      string   `json:"title,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Types   int    `json:"types"`
}

var startTime = time.Now()

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "Gutenberg Block API",
		"version": Version,
		"endpoints": []string{
			"GET /health",
			"GET /types",
			"POST /parse",
			"POST /serialize",
			"WS /ws",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(startTime).String(),
		Types:   len(serverRegistry.Names()),
	})
}

func handleTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	names := serverRegistry.Names()
	types := make([]TypeInfo, 0, len(names))
	for _, name := range names {
		bt := serverRegistry.Lookup(name)
		info := TypeInfo{Name: name}
		if bt != nil {
			info.Title = bt.Title
			for attr := range bt.Attributes {
				info.Attributes = append(info.Attributes, attr)
			}
			sort.Strings(info.Attributes)
		}
		types = append(types, info)
	}

	response := APIResponse{
		Success: true,
		Data:    types,
		Meta: &APIMeta{
			Total:     len(types),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	req, ok := decodeRequest[ParseRequest](w, r)
	if !ok {
		return
	}

	start := time.Now()
	parsed, err := parser.Parse(serverRegistry, req.Content)
	if err != nil {
		var parseErr *coreerrors.ParseError
		if errors.As(err, &parseErr) {
			respondError(w, http.StatusUnprocessableEntity, "PARSE_ERROR", parseErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to parse document")
		return
	}
	duration := time.Since(start)

	invalid := 0
	for _, b := range parsed {
		if !b.IsValid {
			invalid++
		}
	}

	logging.ParseEvent(len(parsed), invalid, duration,
		"request_id", logging.GetRequestID(r.Context()))

	respond(w, http.StatusOK, ParseResult{
		Blocks:      parsed,
		Total:       len(parsed),
		Invalid:     invalid,
		Duration:    duration.String(),
		Fingerprint: fingerprint.SumString(req.Content),
	})
}

func handleSerialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	req, ok := decodeRequest[SerializeRequest](w, r)
	if !ok {
		return
	}

	content, err := parser.SerializeBlocks(req.Blocks)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "SERIALIZE_ERROR", err.Error())
		return
	}

	respond(w, http.StatusOK, SerializeResult{
		Content:     content,
		Fingerprint: fingerprint.SumString(content),
	})
}

// decodeRequest reads and decodes a JSON request body, enforcing the
// configured size limit. On failure it writes an error response and
// returns ok=false.
func decodeRequest[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T

	limit := ServerConfig.MaxDocumentSize
	if limit <= 0 {
		limit = DefaultMaxDocumentSize
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body exceeds size limit")
		return req, false
	}

	if err := json.Unmarshal(data, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return req, false
	}

	return req, true
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
