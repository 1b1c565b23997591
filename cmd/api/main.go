package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"feedback-insights-go/internal/config"
	"feedback-insights-go/internal/dataset"
	"feedback-insights-go/internal/ingest"
	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/logger"
	"feedback-insights-go/internal/pipeline"
	"feedback-insights-go/internal/types"
)

type analyzeRequest struct {
	Path string `json:"path,omitempty"`
	pipeline.Options
}

type columnsResponse struct {
	Columns   []string            `json:"columns"`
	Suggested types.ColumnMapping `json:"suggested_mapping"`
}

func main() {
	cfg := config.Load()

	log := logger.New()
	log.WithField("service", "feedback-insights-go").Info("starting service")

	var (
		embedder  llm.Embedder
		completer llm.Completer
	)
	client, err := llm.NewClient(cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.ChatModel)
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		log.Warn("OPENAI_API_KEY not set; theme discovery and summaries are disabled")
	case err != nil:
		log.WithError(err).Fatal("failed to build llm client")
	default:
		embedder, completer = client, client
		if cfg.LLMRetryMaxElapsed > 0 {
			embedder = llm.RetryEmbedder{Inner: client, MaxElapsed: cfg.LLMRetryMaxElapsed}
			completer = llm.RetryCompleter{Inner: client, MaxElapsed: cfg.LLMRetryMaxElapsed}
		}
	}

	pipe := pipeline.New(embedder, completer)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// columns endpoint: header of a dataset plus a suggested mapping, so a
	// caller can build its column selections before analyzing
	mux.HandleFunc("/columns", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "columns")
		path := r.URL.Query().Get("path")
		if path == "" {
			path = cfg.DatasetPath
		}
		table, err := dataset.Load(path)
		if err != nil {
			reqLog.WithError(err).Warn("dataset load failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, columnsResponse{
			Columns:   table.Header,
			Suggested: dataset.SuggestMapping(table.Header),
		})
	})

	// analyze endpoint: full pipeline run over one dataset
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Path == "" {
			req.Path = cfg.DatasetPath
		}
		if req.Themes == 0 {
			req.Themes = cfg.DefaultThemes
		}
		table, err := dataset.Load(req.Path)
		if err != nil {
			reqLog.WithError(err).Warn("dataset load failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		res, err := pipe.Run(r.Context(), table, req.Options)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("pipeline finished")
		if err != nil {
			reqLog.WithError(err).Warn("pipeline returned error")
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// statusFor maps the error taxonomy to HTTP: input errors are the caller's
// to fix, anything else is an upstream service failure.
func statusFor(err error) int {
	if errors.Is(err, ingest.ErrTextColumnRequired) || errors.Is(err, pipeline.ErrNoUsableRows) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
