// Package server exposes the classification and transcription engines over
// HTTP, together with the health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/andrei-vlg/shopmind/internal/health"
	"github.com/andrei-vlg/shopmind/internal/nlp"
	"github.com/andrei-vlg/shopmind/internal/speech"
)

// maxWAVBytes bounds the transcription request body. 10 MiB is roughly five
// minutes of 16 kHz mono PCM16, far beyond a voice search utterance.
const maxWAVBytes = 10 << 20

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server is the HTTP front of shopmind.
type Server struct {
	classifier *nlp.Classifier
	speech     *speech.Service // nil when transcription is disabled
	health     *health.Handler

	httpSrv *http.Server
}

// New builds the server on addr. speechSvc may be nil, which turns the
// transcription endpoint into a 503.
func New(addr string, classifier *nlp.Classifier, speechSvc *speech.Service, healthh *health.Handler) *Server {
	s := &Server{
		classifier: classifier,
		speech:     speechSvc,
		health:     healthh,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/nlp/classify", s.handleClassify)
	mux.HandleFunc("POST /api/stt/transcribe", s.handleTranscribe)
	mux.Handle("GET /metrics", promhttp.Handler())
	healthh.Register(mux)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type classifyRequest struct {
	UserID  *uuid.UUID `json:"userId"`
	Message string     `json:"message"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	res := s.classifier.ClassifyAndDispatch(r.Context(), req.UserID, req.Message)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		writeError(w, http.StatusServiceUnavailable, "transcription is not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWAVBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if len(body) > maxWAVBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "audio payload too large")
		return
	}

	tr, err := s.speech.Transcribe(r.Context(), body)
	if err != nil {
		if errors.Is(err, speech.ErrBadAudio) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
