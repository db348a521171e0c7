package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// YAML sends a YAML response.
func (res *Response) YAML(status int, data any) {
	res.w.Header().Set("Content-Type", "application/yaml")
	res.w.WriteHeader(status)
	enc := yaml.NewEncoder(res.w)
	_ = enc.Encode(data)
	_ = enc.Close()
}

// Negotiate sends 200 {"data": v} as YAML when r accepts application/yaml
// (or text/yaml), JSON otherwise.
func (res *Response) Negotiate(r *http.Request, v any) {
	if strings.Contains(r.Header.Get("Accept"), "yaml") {
		res.YAML(http.StatusOK, envelope{"data": v})
		return
	}
	res.Success(v)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// BadRequest sends 400.
func (res *Response) BadRequest(message ...string) {
	res.Error(http.StatusBadRequest, first(message, "Bad Request."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
