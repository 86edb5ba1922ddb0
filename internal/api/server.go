// Package api serves analyses over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/devenn05/Crypto-signal-check/internal/app"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/risk"
)

const invalidCoinMessage = "Invalid coin pair. Please check the symbol and market type."

var requiredFields = []string{"market_type", "symbol", "trade_type", "time_unit", "time_value"}

// Pinger checks exchange connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context, market domain.MarketType) error
}

// Server exposes /analyze, /health and /metrics.
type Server struct {
	analyzer app.Analyzer
	logger   ports.Logger
	metrics  http.Handler
	pinger   Pinger
	started  time.Time
}

// NewServer creates the HTTP server. metrics and pinger may be nil.
func NewServer(analyzer app.Analyzer, logger ports.Logger, metrics http.Handler, pinger Pinger) (*Server, error) {
	if analyzer == nil || logger == nil {
		return nil, fmt.Errorf("analyzer and logger are required for the API server")
	}
	return &Server{
		analyzer: analyzer,
		logger:   logger,
		metrics:  metrics,
		pinger:   pinger,
		started:  time.Now(),
	}, nil
}

// SetCORS writes permissive CORS headers.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Handler returns the routed handler with CORS applied to every response.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info(shutdownCtx, "Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

type structuredData struct {
	Indicators   map[string]domain.VerdictRecord `json:"indicators"`
	FinalVerdict domain.FinalVerdict             `json:"final_verdict"`
	Price        float64                         `json:"price"`
	Targets      domain.PriceTargets             `json:"targets"`
	Advice       risk.Advice                     `json:"advice"`
	StaleData    bool                            `json:"stale_data"`
}

type analyzeResponse struct {
	ConsoleOutput  string         `json:"console_output"`
	StructuredData structuredData `json:"structured_data"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}
	for _, field := range requiredFields {
		if _, ok := body[field]; !ok {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	req, err := app.NewRequest(
		str(body["market_type"]),
		str(body["symbol"]),
		str(body["trade_type"]),
		str(body["time_unit"]),
		str(body["time_value"]),
	)
	if err != nil {
		s.writeAnalyzeError(r.Context(), w, err)
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeAnalyzeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		ConsoleOutput: app.FormatReport(res),
		StructuredData: structuredData{
			Indicators:   res.Analysis.Indicators(),
			FinalVerdict: res.Analysis.Final,
			Price:        res.Analysis.Price,
			Targets:      res.Analysis.Targets,
			Advice:       res.Advice,
			StaleData:    res.StaleData,
		},
	})
}

func (s *Server) writeAnalyzeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, err, "Analyze request failed", map[string]interface{}{"status": status})
	}
	writeError(w, status, msg)
}

// StatusFor maps an analysis error to an HTTP status and client message.
func StatusFor(err error) (int, string) {
	switch app.Classify(err) {
	case "invalid_symbol":
		return http.StatusBadRequest, invalidCoinMessage
	case "invalid_direction", "invalid_timeframe", "invalid_request":
		return http.StatusBadRequest, err.Error()
	case "data_unavailable":
		return http.StatusBadGateway, err.Error()
	case "canceled":
		return 499, "request canceled"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	resp := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	}
	status := http.StatusOK
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx, domain.Spot); err != nil {
			resp["status"] = "degraded"
			resp["exchange"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp["exchange"] = "ok"
		}
	}
	writeJSON(w, status, resp)
}

// str renders a decoded JSON value as the string a user would have typed:
// numbers like 4 become "4".
func str(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprint(t)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
