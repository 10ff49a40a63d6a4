// Package web serves the import result to a browser.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bvbswizard/internal/bvbs"
	"bvbswizard/internal/config"
	"bvbswizard/internal/model"
	"bvbswizard/internal/pipeline"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// DefaultPort is used when Options.Port is empty.
const DefaultPort = "8080"

// Options configures the server.
type Options struct {
	Port   string
	Input  pipeline.Input
	Config config.Config
	Logger *zap.Logger
}

// HelpMarkdown returns the help text with the version filled in.
func HelpMarkdown() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
}

type server struct {
	opts Options
	log  *zap.Logger
}

// NewHandler returns the HTTP handler with the API and the static page.
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &server{opts: opts, log: opts.Logger}

	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("/api/run", s.handleRun)
	mux.HandleFunc("/api/line-context", s.handleLineContext)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// StartServer serves until ctx is done.
func StartServer(ctx context.Context, opts Options) error {
	if opts.Port == "" {
		opts.Port = DefaultPort
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           NewHandler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Starting bvbswizard web server at http://localhost:%s\n", opts.Port)
	fmt.Printf("Go to http://localhost:%s in your browser.\n", opts.Port)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		opts.Logger.Info("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

type runResponse struct {
	*pipeline.Result
	Report        string `json:"report"`
	VerboseReport string `json:"verbose_report"`
	Version       string `json:"version"`
}

type errorResponse struct {
	Error    string             `json:"error"`
	ExitCode int                `json:"exit_code"`
	Context  *model.LineContext `json:"context,omitempty"`
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	rc := pipeline.NewRunContext(s.opts.Config, s.log)
	res, err := pipeline.Run(r.Context(), rc, s.opts.Input)
	if err != nil {
		s.log.Warn("run failed", zap.Error(err))
		resp := errorResponse{Error: err.Error(), ExitCode: pipeline.Classify(err)}
		status := http.StatusInternalServerError
		var de *bvbs.DecodeError
		if errors.As(err, &de) {
			ctx := model.GetLineContext(pipeline.ExpandHome(s.opts.Input.BVBSPath), de.Line)
			resp.Context = &ctx
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		Result:        res,
		Report:        pipeline.GenerateReport(res, false),
		VerboseReport: pipeline.GenerateReport(res, true),
		Version:       model.Version,
	})
}

// handleLineContext shows a line of the configured BVBS export. Other files
// are not served.
func (s *server) handleLineContext(w http.ResponseWriter, r *http.Request) {
	lineNumStr := r.URL.Query().Get("line")
	if lineNumStr == "" {
		http.Error(w, "line is required", http.StatusBadRequest)
		return
	}
	lineNum, err := strconv.Atoi(lineNumStr)
	if err != nil {
		http.Error(w, "invalid line number", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, model.GetLineContext(pipeline.ExpandHome(s.opts.Input.BVBSPath), lineNum))
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(HelpMarkdown()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
