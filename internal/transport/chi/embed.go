package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/transport/gemini"
)

// EmbeddingProxy performs raw embedding calls on behalf of clients that must
// not hold the provider key.
type EmbeddingProxy interface {
	Configured() bool
	EmbedValues(ctx context.Context, text string) ([]float32, error)
}

const maxEmbedBody = 1 << 20

type embedRequest struct {
	Text any `json:"text"`
}

// embedResponse omits values when the provider sent none; an empty list is kept.
type embedResponse struct {
	Values *[]float32 `json:"values,omitempty"`
}

// Embed handles POST /api/embed.
func (s *Server) Embed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
		return
	}

	configured := s.proxy != nil && s.proxy.Configured()
	s.logger.Info("Embedding proxy key configured", zap.Bool("configured", configured))
	if !configured {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Server embedding key is not configured."})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEmbedBody))
	if err != nil {
		s.logger.Error("Failed to read embed request", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate embedding."})
		return
	}

	var req embedRequest
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON payload."})
			return
		}
	}

	text, _ := req.Text.(string)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Text is required."})
		return
	}

	values, err := s.proxy.EmbedValues(r.Context(), text)
	if err != nil {
		if ue, ok := gemini.AsUpstream(err); ok {
			writeJSON(w, ue.Status, ErrorResponse{
				Error:   "Embedding provider request failed.",
				Details: ue.Body,
			})
			return
		}
		s.logger.Error("Failed to handle embed request", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate embedding."})
		return
	}

	var resp embedResponse
	if values != nil {
		resp.Values = &values
	}
	writeJSON(w, http.StatusOK, resp)
}
