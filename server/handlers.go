package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
	"github.com/lauvickie617/vickie-ai-portfolio/storage"
)

// Visitor-facing error messages.
const (
	InvalidMessageProse = "Please provide a valid message."
	TooLargeProse       = "That message is too long. Please shorten it and try again."
)

const transcriptTimeout = 5 * time.Second

// chatRequest keeps message raw so a non-string value can be told apart
// from a missing one.
type chatRequest struct {
	Message json.RawMessage         `json:"message"`
	History []provider.HistoryEntry `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, TooLargeProse)
			return
		}
		writeError(w, http.StatusBadRequest, InvalidMessageProse)
		return
	}

	message, ok := parseMessage(req.Message)
	if !ok {
		writeError(w, http.StatusBadRequest, InvalidMessageProse)
		return
	}

	settings := s.Settings()
	ctx := r.Context()
	if settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.RequestTimeout)
		defer cancel()
	}

	start := s.now()
	reply, err := s.gen.Generate(ctx, message, provider.HistoryFromWire(req.History))
	took := s.now().Sub(start)

	if err != nil {
		prose := model.ProseFor(err)
		s.logger.Warn("generation failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Int("history", len(req.History)),
			zap.Duration("took", took),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, prose)
		s.record(message, prose, true, took)
		return
	}

	writeJSON(w, http.StatusOK, provider.ChatResponse{
		Response:  reply,
		Timestamp: s.now().UnixMilli(),
	})
	s.record(message, reply, false, took)
}

// parseMessage accepts only a JSON string with visible content.
func parseMessage(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var message string
	if err := json.Unmarshal(raw, &message); err != nil {
		return "", false
	}
	if strings.TrimSpace(message) == "" {
		return "", false
	}
	return message, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, provider.HealthResponse{
		Status:             "ok",
		HasFileSearchStore: s.Settings().StoreName != "",
		Timestamp:          s.now().UnixMilli(),
	})
}

func (s *Server) handleStoreInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	resp := provider.StoreInfoResponse{}
	if name := s.Settings().StoreName; name != "" {
		resp.Configured = true
		resp.StoreName = &name
	}
	writeJSON(w, http.StatusOK, resp)
}

// record writes the exchange in the background; Shutdown waits for it.
func (s *Server) record(question, answer string, failed bool, took time.Duration) {
	if s.transcripts == nil {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), transcriptTimeout)
		defer cancel()
		err := s.transcripts.Record(ctx, storage.Transcript{
			Source:     "server",
			Question:   question,
			Answer:     answer,
			Failed:     failed,
			Model:      s.opts.ModelName,
			DurationMS: took.Milliseconds(),
		})
		if err != nil {
			s.logger.Warn("transcript write failed", zap.Error(err))
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, provider.ErrorResponse{Error: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
