// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gocargo/aggregate"
	"gocargo/config"
	"gocargo/importer"
	"gocargo/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// RunStore is the part of the snapshot store the server uses. A nil store
// disables persistence and the run endpoints.
type RunStore interface {
	SaveRun(run storage.Run) (string, error)
	ListRuns() ([]storage.RunSummary, error)
	LoadRun(id string) (storage.Run, error)
}

type Server struct {
	store   RunStore
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router
}

type analyzeResponse struct {
	RunID       string                   `json:"runId,omitempty"`
	Source      string                   `json:"source"`
	Sheets      []storage.SheetOutcome   `json:"sheets"`
	Warnings    []string                 `json:"warnings"`
	RowsDropped int                      `json:"rowsDropped"`
	Cards       []aggregate.CurrencyCard `json:"cards"`
	Report      aggregate.Report         `json:"report"`
}

type runResponse struct {
	Run    storage.RunSummary       `json:"run"`
	Sheets []storage.SheetOutcome   `json:"sheets"`
	Cards  []aggregate.CurrencyCard `json:"cards"`
	Report aggregate.Report         `json:"report"`
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Sheets []storage.SheetOutcome `json:"sheets,omitempty"`
}

// analysis is the outcome of one upload, shared by the HTML and JSON routes.
type analysis struct {
	result *importer.Result
	report aggregate.Report
	runID  string
}

// analysisError carries the HTTP status for a failed upload and whatever
// sheet outcomes were known when it failed.
type analysisError struct {
	status int
	sheets []storage.SheetOutcome
	err    error
}

func (e *analysisError) Error() string {
	return e.err.Error()
}

func (e *analysisError) Unwrap() error {
	return e.err
}

func NewServer(store RunStore, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: newMetrics(),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(server.logRequests)
	router.Use(middleware.Recoverer)
	router.Use(server.metrics.instrument)

	router.Get("/", server.handleIndex)
	router.Post("/report", server.handleReport)
	router.Get("/runs/{id}", server.handleRunPage)
	router.Post("/api/analyze", server.handleAPIAnalyze)
	router.Get("/api/runs", server.handleAPIRuns)
	router.Get("/api/runs/{id}", server.handleAPIRun)
	router.Method(http.MethodGet, "/metrics", server.metrics.handler())

	server.router = router
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexPageView{
		Title:        "Shipment report",
		MaxUploadMB:  s.cfg.Serve.MaxUploadMB,
		CanPersist:   s.store != nil,
		PersistByDef: s.cfg.Storage.PersistRuns,
	}
	if s.store != nil {
		runs, err := s.store.ListRuns()
		if err != nil {
			s.logger.ErrorContext(r.Context(), "list runs failed", "error", err)
		} else {
			view.Runs = runs
		}
	}

	if err := renderTemplate(w, "index.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	out, err := s.analyzeUpload(w, r)
	if err != nil {
		s.renderErrorPage(w, err)
		return
	}

	view := buildReportPage(out.result.Source, out.runID, storage.SheetOutcomes(out.result.Sheets), out.report, s.cfg.CurrencyCards())
	view.Warnings = warningStrings(out.result.Warnings)
	if err := renderTemplate(w, "report.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRunPage(w http.ResponseWriter, r *http.Request) {
	run, report, err := s.loadRunReport(chi.URLParam(r, "id"))
	if err != nil {
		s.renderErrorPage(w, err)
		return
	}

	view := buildReportPage(run.Source, run.ID, run.Sheets, report, s.cfg.CurrencyCards())
	if err := renderTemplate(w, "report.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	out, err := s.analyzeUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, analyzeResponse{
		RunID:       out.runID,
		Source:      out.result.Source,
		Sheets:      storage.SheetOutcomes(out.result.Sheets),
		Warnings:    warningStrings(out.result.Warnings),
		RowsDropped: out.result.RowsDropped,
		Cards:       out.report.Totals.Cards(s.cfg.CurrencyCards()),
		Report:      out.report,
	})
}

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, r, &analysisError{status: http.StatusNotFound, err: errors.New("run storage is disabled")})
		return
	}

	runs, err := s.store.ListRuns()
	if err != nil {
		writeError(w, r, &analysisError{status: http.StatusInternalServerError, err: err})
		return
	}
	render.JSON(w, r, runs)
}

func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	run, report, err := s.loadRunReport(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, runResponse{
		Run:    run.RunSummary,
		Sheets: run.Sheets,
		Cards:  report.Totals.Cards(s.cfg.CurrencyCards()),
		Report: report,
	})
}

// analyzeUpload runs the pipeline on the multipart "file" field. Form fields
// "format" and "persist" (auto|on|off) are optional. Request bodies larger
// than serve.max_upload_mb are rejected with 413.
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) (analysis, error) {
	started := time.Now()
	ctx := r.Context()

	maxBytes := int64(s.cfg.Serve.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.observeAnalysis("too_large", 0, 0, time.Since(started))
			return analysis{}, &analysisError{
				status: http.StatusRequestEntityTooLarge,
				err:    fmt.Errorf("upload exceeds %d MB limit", s.cfg.Serve.MaxUploadMB),
			}
		}
		return analysis{}, &analysisError{status: http.StatusBadRequest, err: fmt.Errorf("parse multipart form: %w", err)}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return analysis{}, &analysisError{status: http.StatusBadRequest, err: errors.New("missing file upload")}
	}
	defer file.Close()

	persist, err := parsePersistField(r.FormValue("persist"), s.cfg.Storage.PersistRuns)
	if err != nil {
		return analysis{}, &analysisError{status: http.StatusBadRequest, err: err}
	}

	opts := importer.DefaultOptions()
	opts.Format = strings.TrimSpace(r.FormValue("format"))
	opts.Schema = s.cfg.Schema()
	opts.Normalize.TitleRows = s.cfg.Sheets.TitleRows
	opts.Workers = s.cfg.Sheets.Workers
	opts.Logger = s.logger.With("upload", uploadName(header.Filename))

	result, err := importer.Run(ctx, file, uploadName(header.Filename), opts)
	if err != nil {
		failure := classifyRunError(result, err)
		succeeded, failed := 0, 0
		if result != nil {
			succeeded, failed = result.Succeeded(), result.Failed()
		}
		s.metrics.observeAnalysis(metricOutcome(err), succeeded, failed, time.Since(started))
		return analysis{}, failure
	}

	report, err := aggregate.BuildReport(result.Table, opts.Schema)
	if err != nil {
		s.metrics.observeAnalysis("error", result.Succeeded(), result.Failed(), time.Since(started))
		return analysis{}, &analysisError{status: http.StatusInternalServerError, err: err}
	}
	for _, client := range report.NoData {
		s.logger.WarnContext(ctx, "no data for client", "client", client)
	}

	out := analysis{result: result, report: report}
	if persist && s.store != nil {
		id, err := s.store.SaveRun(storage.NewRun(result, opts.Schema))
		if err != nil {
			s.metrics.observeAnalysis("error", result.Succeeded(), result.Failed(), time.Since(started))
			return analysis{}, &analysisError{status: http.StatusInternalServerError, err: fmt.Errorf("store run: %w", err)}
		}
		out.runID = id
		s.logger.InfoContext(ctx, "run stored", "run_id", id, "source", result.Source)
	}

	s.metrics.observeAnalysis("ok", result.Succeeded(), result.Failed(), time.Since(started))
	return out, nil
}

func (s *Server) loadRunReport(id string) (storage.Run, aggregate.Report, error) {
	if s.store == nil {
		return storage.Run{}, aggregate.Report{}, &analysisError{status: http.StatusNotFound, err: errors.New("run storage is disabled")}
	}

	run, err := s.store.LoadRun(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		return storage.Run{}, aggregate.Report{}, &analysisError{status: status, err: err}
	}

	report, err := aggregate.BuildReport(run.Table, run.ReportSchema(s.cfg.Schema()))
	if err != nil {
		return storage.Run{}, aggregate.Report{}, &analysisError{status: http.StatusInternalServerError, err: err}
	}
	return run, report, nil
}

func (s *Server) renderErrorPage(w http.ResponseWriter, err error) {
	failure := asAnalysisError(err)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(failure.status)
	view := errorPageView{Title: "Report failed", Message: failure.Error(), Sheets: failure.sheets}
	if renderErr := renderTemplate(w, "error.html", view); renderErr != nil {
		s.logger.Error("render error page failed", "error", renderErr)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

func classifyRunError(result *importer.Result, err error) *analysisError {
	failure := &analysisError{status: http.StatusInternalServerError, err: err}
	if result != nil {
		failure.sheets = storage.SheetOutcomes(result.Sheets)
	}

	var (
		loadErr     *importer.LoadError
		coercionErr *importer.NumericCoercionError
	)
	switch {
	case errors.As(err, &coercionErr):
		failure.status = http.StatusUnprocessableEntity
	case errors.As(err, &loadErr), errors.Is(err, importer.ErrUnsupportedFormat):
		failure.status = http.StatusBadRequest
	}
	return failure
}

func metricOutcome(err error) string {
	var (
		loadErr     *importer.LoadError
		coercionErr *importer.NumericCoercionError
	)
	switch {
	case errors.As(err, &coercionErr):
		return "coercion_error"
	case errors.As(err, &loadErr):
		return "load_error"
	default:
		return "error"
	}
}

func asAnalysisError(err error) *analysisError {
	var failure *analysisError
	if errors.As(err, &failure) {
		return failure
	}
	return &analysisError{status: http.StatusInternalServerError, err: err}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	failure := asAnalysisError(err)
	render.Status(r, failure.status)
	render.JSON(w, r, errorResponse{Error: failure.Error(), Sheets: failure.sheets})
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtAmount": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		"fmtPercent": func(value float64) string {
			return fmt.Sprintf("%.1f%%", value*100)
		},
		"barWidth": func(value float64) string {
			return fmt.Sprintf("%.1f%%", min(max(value, 0), 1)*100)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func parsePersistField(value string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid persist value %q (supported: auto|on|off)", value)
	}
}

func uploadName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "upload.xlsx"
	}
	return base
}

func warningStrings(warnings []importer.MissingColumnWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, warning.String())
	}
	return out
}
