package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-planner/internal/config"
	"github.com/iwvelando/mortgage-planner/internal/optimizer"
	"github.com/iwvelando/mortgage-planner/internal/planner"
	"github.com/iwvelando/mortgage-planner/internal/store"
	"github.com/iwvelando/mortgage-planner/internal/telemetry"
	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"github.com/iwvelando/mortgage-planner/pkg/output"
	"github.com/iwvelando/mortgage-planner/pkg/spreadsheet"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Options tunes the handler returned by NewHandler.
type Options struct {
	MaxUploadSize int64
	Version       string
	MetricsPath   string
}

type handler struct {
	logger        *zap.Logger
	store         *store.Store
	generator     *loans.ScheduleGenerator
	exporter      *spreadsheet.Exporter
	optimizer     *optimizer.Runner
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the schedule, export and
// scenario APIs. A nil store gets a fresh empty one.
func NewHandler(logger *zap.Logger, st *store.Store, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if st == nil {
		st = store.New()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = constants.DefaultMetricsPath
	}

	h := &handler{
		logger:        logger,
		store:         st,
		generator:     loans.NewScheduleGenerator(logger),
		exporter:      spreadsheet.NewExporter(logger),
		optimizer:     optimizer.NewRunner(logger, optimizer.Config{}),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Stateless computation on a posted scenario
	h.route(mux, "POST /api/schedule", h.handleSchedule)
	h.route(mux, "POST /api/export", h.handleExport)
	h.route(mux, "POST /api/optimize", h.handleOptimize)

	// Whole configuration upload, one schedule per scenario
	h.route(mux, "POST /api/plan", h.handlePlan)

	// Scenarios held in memory for the life of the process
	h.route(mux, "GET /api/scenarios", h.handleListScenarios)
	h.route(mux, "POST /api/scenarios", h.handleAddScenario)
	h.route(mux, "DELETE /api/scenarios/{id}", h.handleDeleteScenario)
	h.route(mux, "GET /api/scenarios/{id}/schedule", h.handleStoredSchedule)
	h.route(mux, "GET /api/scenarios/{id}/export", h.handleStoredExport)

	h.route(mux, "GET /api/version", h.handleVersion)

	mux.Handle("GET "+metricsPath, promhttp.Handler())

	telemetry.StoredScenarios.Set(float64(st.Len()))
	return mux
}

// route registers fn under pattern with a span and a request counter.
func (h *handler) route(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.Tracer().Start(r.Context(), pattern)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		telemetry.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type scheduleResponse struct {
	ID          string         `json:"id,omitempty"`
	Scenario    loans.Scenario `json:"scenario"`
	BasePayment float64        `json:"basePayment"`
	Rows        []loans.Row    `json:"rows"`
	Totals      loans.Totals   `json:"totals"`
	Warnings    []string       `json:"warnings,omitempty"`
}

type planResponse struct {
	Schedules []scheduleResponse `json:"schedules"`
	CSV       string             `json:"csv"`
	Warnings  []string           `json:"warnings,omitempty"`
	Duration  string             `json:"duration"`
}

type optimizeRequest struct {
	config.Scenario
	TargetMonths int `json:"targetMonths"`
}

type addScenarioResponse struct {
	Entry    store.Entry `json:"entry"`
	Warnings []string    `json:"warnings,omitempty"`
}

func newScheduleResponse(id string, s loans.Scenario, schedule loans.Schedule, warnings []string) scheduleResponse {
	return scheduleResponse{
		ID:          id,
		Scenario:    s,
		BasePayment: schedule.BasePayment,
		Rows:        schedule.Rows,
		Totals:      schedule.Totals,
		Warnings:    warnings,
	}
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"

	entry, ok := h.decodeScenario(w, r, op)
	if !ok {
		return
	}
	scenario := entry.ToScenario()

	schedule, ok := h.compute(w, scenario, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newScheduleResponse("", scenario, schedule, entry.Warnings()))
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	entry, ok := h.decodeScenario(w, r, op)
	if !ok {
		return
	}
	h.export(w, entry.ToScenario(), op)
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlan"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.respondBodyError(w, err, "failed to parse upload", op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	scenarios, err := cfg.BuildScenarios()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	results, err := planner.Run(h.logger, scenarios)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	telemetry.SchedulesComputed.Add(float64(len(results)))

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, results); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	response := planResponse{
		Schedules: make([]scheduleResponse, 0, len(results)),
		CSV:       csvBuf.String(),
		Warnings:  warnings,
		Duration:  time.Since(start).String(),
	}
	for _, result := range results {
		response.Schedules = append(response.Schedules, newScheduleResponse("", result.Scenario, result.Schedule, nil))
	}

	h.logger.Info("plan computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]store.Entry{
		"scenarios": h.store.List(),
	})
}

func (h *handler) handleAddScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddScenario"

	entry, ok := h.decodeScenario(w, r, op)
	if !ok {
		return
	}
	scenario := entry.ToScenario()
	if err := scenario.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	added := h.store.Add(scenario)
	telemetry.StoredScenarios.Set(float64(h.store.Len()))
	h.logger.Info("scenario added",
		zap.String("op", op),
		zap.String("id", added.ID),
		zap.String("scenario", scenario.Name),
	)
	h.writeJSON(w, http.StatusCreated, addScenarioResponse{Entry: added, Warnings: entry.Warnings()})
}

func (h *handler) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteScenario"

	id := r.PathValue("id")
	if err := h.store.Delete(id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}
	telemetry.StoredScenarios.Set(float64(h.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleStoredSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStoredSchedule"

	entry, ok := h.lookup(w, r, op)
	if !ok {
		return
	}
	schedule, ok := h.compute(w, entry.Scenario, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newScheduleResponse(entry.ID, entry.Scenario, schedule, nil))
}

func (h *handler) handleStoredExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStoredExport"

	entry, ok := h.lookup(w, r, op)
	if !ok {
		return
	}
	h.export(w, entry.Scenario, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"

	var req optimizeRequest
	if !h.decodeJSON(w, r, &req, "failed to decode optimization request", op) {
		return
	}

	summary, err := h.optimizer.Solve(req.ToScenario(), req.TargetMonths)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) decodeScenario(w http.ResponseWriter, r *http.Request, op string) (config.Scenario, bool) {
	var entry config.Scenario
	ok := h.decodeJSON(w, r, &entry, "failed to decode scenario", op)
	return entry, ok
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, msg string, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		h.respondBodyError(w, err, msg, op)
		return false
	}
	return true
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request, op string) (store.Entry, bool) {
	id := r.PathValue("id")
	entry, ok := h.store.Get(id)
	if !ok {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("scenario %s not found", id), op)
	}
	return entry, ok
}

func (h *handler) compute(w http.ResponseWriter, scenario loans.Scenario, op string) (loans.Schedule, bool) {
	schedule, err := h.generator.Generate(scenario)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return schedule, false
	}
	telemetry.SchedulesComputed.Inc()
	return schedule, true
}

// export renders the workbook into memory first so a failure can still be
// reported as JSON.
func (h *handler) export(w http.ResponseWriter, scenario loans.Scenario, op string) {
	schedule, ok := h.compute(w, scenario, op)
	if !ok {
		telemetry.Exports.WithLabelValues("rejected").Inc()
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(&buf, scenario, schedule); err != nil {
		telemetry.Exports.WithLabelValues("error").Inc()
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to export scenario: %v", err), op)
		return
	}
	telemetry.Exports.WithLabelValues("ok").Inc()

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": scenario.Filename()}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		h.logger.Warn("failed to write workbook",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, msg string, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", msg, err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status so an encoding failure
// still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"failed to encode response"}`+"\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write JSON response", zap.Error(err))
	}
}
