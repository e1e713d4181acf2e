package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Bahjat/page-report-tool/internal/model"
	"github.com/Bahjat/page-report-tool/internal/platform/errs"
)

const reportTimeout = 60 * time.Second

var errInputRequired = errors.New("the \"input\" field is required")

// Transport handles HTTP requests for page reports.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /report", t.handleReport)
	mux.HandleFunc("GET /healthz", t.handleHealth)
}

type reportRequest struct {
	Input string `json:"input"`
	// URL is accepted as an alias of Input.
	URL         string `json:"url"`
	ProbeImages bool   `json:"probe_images"`
}

func (r *reportRequest) normalize() error {
	r.Input = strings.TrimSpace(r.Input)
	if r.Input == "" {
		r.Input = strings.TrimSpace(r.URL)
	}
	if r.Input == "" {
		return errInputRequired
	}
	return nil
}

func (t *Transport) handleReport(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with an \"input\" field.")
		return
	}

	if err := req.normalize(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
	defer cancel()

	report, err := t.service.Report(ctx, req.Input, Options{ProbeImages: req.ProbeImages})
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	// A failed fetch is still a report: the caller surfaces FetchError.
	t.renderJSON(w, http.StatusOK, report)
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleServiceError maps resolver rejections to 400. Fetch failures never
// reach here: they are returned as report data.
func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) && appErr.Kind == errs.InvalidInput {
		t.renderError(w, http.StatusBadRequest, appErr.Message)
		return
	}

	t.logger.Error("unexpected service error", "error", err)
	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
