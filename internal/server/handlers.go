package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"speech-coach-go/internal/analyzer"
	"speech-coach-go/internal/types"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "Speech Consulting AI",
		"model":  s.model,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "analyze")

	var req types.AnalysisRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		reqLog.WithField("error", err.Error()).Warn("invalid request body")
		s.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		reqLog.Warn("missing transcript")
		s.writeJSON(w, http.StatusBadRequest, errorBody{Detail: "transcript is required"})
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req.Transcript, req.VideoLength)
	if err != nil {
		status, detail := statusFor(err)
		reqLog.WithField("error", err.Error()).
			WithField("kind", analyzer.ErrorKind(err)).
			WithField("status", status).
			Error("analysis failed")
		s.writeJSON(w, status, errorBody{Detail: detail})
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// statusFor maps an Analyze error onto an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch analyzer.ErrorKind(err) {
	case analyzer.KindInvalidFormat, analyzer.KindEmptyResponse:
		return http.StatusBadGateway, err.Error()
	case analyzer.KindRetriesExhausted:
		return http.StatusServiceUnavailable, "the AI model is temporarily unavailable, please try again later"
	case analyzer.KindCanceled:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, "analysis timed out"
		}
		// client went away
		return 499, "request canceled"
	default:
		return http.StatusInternalServerError, "an unexpected error occurred during analysis"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to write response")
	}
}
