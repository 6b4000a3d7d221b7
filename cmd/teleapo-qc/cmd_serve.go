package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"teleapo-qc-go/internal/config"
	"teleapo-qc-go/internal/gateway"
	"teleapo-qc-go/internal/logger"
	"teleapo-qc-go/internal/workflow"
)

var serveFlags struct {
	port string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quality check over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "Listen port (default PORT or 8080)")
}

type checkRequest struct {
	Transcript string   `json:"transcript"`
	Checkers   []string `json:"checkers,omitempty"`
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	runner := workflow.New(gateway.New(cfg, gateway.DefaultPolicy))

	log := logger.New()
	log.WithField("service", "teleapo-qc").Info("starting service")

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "check")
		reqLog.Info("check request received")

		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
			reqLog.Warn("missing transcript")
			http.Error(w, "missing transcript", http.StatusBadRequest)
			return
		}
		checkers := resolveCheckers(cfg, req.Checkers)
		if len(checkers) == 0 {
			reqLog.Warn("no checker names configured")
			http.Error(w, "no checker names configured", http.StatusBadRequest)
			return
		}

		start := time.Now()
		v, err := runner.Run(r.Context(), req.Transcript, checkers)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("workflow finished")
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			reqLog.WithError(err).Warn("workflow returned error")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			reqLog.WithError(err).Error("failed to write response")
		}
	})

	port := serveFlags.port
	if port == "" {
		port = envOr("PORT", "8080")
	}
	addr := fmt.Sprintf(":%s", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
