package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/noteflow/internal/aiapi"
	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/dmitrijs2005/noteflow/internal/server/ai"
)

// maxBodyBytes bounds request bodies; notes are text.
const maxBodyBytes = 1 << 20

// AIService is what the handlers need from package ai.
type AIService interface {
	Summarize(ctx context.Context, content string) (string, error)
	Tags(title, content string) ([]string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type handlers struct {
	svc AIService
	log logging.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg, details string) {
	writeJSON(w, code, aiapi.ErrorResponse{Error: msg, Details: details})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

func (h *handlers) summarize(w http.ResponseWriter, r *http.Request) {
	var req aiapi.SummarizeRequest
	if !decode(w, r, &req) {
		return
	}

	summary, err := h.svc.Summarize(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, ai.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, "Content is required", "")
			return
		}
		h.log.Error(r.Context(), "summarize failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to summarize", "")
		return
	}

	writeJSON(w, http.StatusOK, aiapi.SummarizeResponse{Summary: summary})
}

func (h *handlers) tags(w http.ResponseWriter, r *http.Request) {
	var req aiapi.TagsRequest
	if !decode(w, r, &req) {
		return
	}

	tags, err := h.svc.Tags(req.Title, req.Content)
	if err != nil {
		if errors.Is(err, ai.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, "Content is required", "")
			return
		}
		h.log.Error(r.Context(), "tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate tags", "")
		return
	}

	writeJSON(w, http.StatusOK, aiapi.TagsResponse{Tags: tags})
}

func (h *handlers) translate(w http.ResponseWriter, r *http.Request) {
	var req aiapi.TranslateRequest
	if !decode(w, r, &req) {
		return
	}

	translation, err := h.svc.Translate(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		var ue *ai.UpstreamError
		switch {
		case errors.Is(err, ai.ErrTranslateArgs):
			writeError(w, http.StatusBadRequest, "Text and target language are required", "")
		case errors.As(err, &ue):
			writeError(w, http.StatusInternalServerError, "Translation failed", ai.UpstreamDetails(err))
		default:
			h.log.Error(r.Context(), "translate failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, aiapi.TranslateResponse{Translation: translation})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
