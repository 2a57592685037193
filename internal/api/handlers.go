// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"career-chat-workers/internal/chat"
	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/validation"
	"career-chat-workers/internal/resume"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code and an {"error": message} body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(se.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", map[string]interface{}{
			"path":    r.URL.Path,
			"code":    string(se.Code),
			"details": se.Details,
		})
	}
	writeJSON(w, status, map[string]string{"error": se.Message})
}

// decodeObject reads a JSON object body. An absent or malformed body yields an empty map.
func decodeObject(r *http.Request) map[string]interface{} {
	payload := map[string]interface{}{}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return payload
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return map[string]interface{}{}
	}
	return payload
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	payload := decodeObject(r)
	if q, _ := payload["question"].(string); strings.TrimSpace(q) == "" {
		s.writeError(w, r, apperrors.NewMissingQuestionError())
		return
	}
	res, err := validation.ValidatePayload(validation.AskSchema, payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !res.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.Join(res.GetErrorMessages(), "; ")})
		return
	}

	req := chat.AskRequest{Question: payload["question"].(string)}
	if id, ok := payload["conversation_id"].(string); ok && id != "" {
		req.ConversationID = &id
	}

	resp, err := s.deps.Chat.Ask(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// analyzeResume takes plain resume text, either as {"text": "..."} or as a
// text/plain body.
func (s *Server) analyzeResume(w http.ResponseWriter, r *http.Request) {
	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			s.writeError(w, r, apperrors.NewMissingResumeTextError())
			return
		}
		text = string(body)
	} else {
		text, _ = decodeObject(r)["text"].(string)
	}

	analysis, err := s.deps.Resume.Analyze(r.Context(), text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analysis)
	case errors.Is(err, resume.ErrMissingText):
		s.writeError(w, r, apperrors.NewMissingResumeTextError())
	case errors.Is(err, resume.ErrTooLarge):
		s.writeError(w, r, apperrors.NewResumeTooLargeError(err.Error()))
	case errors.Is(err, llm.ErrLLMTimeout):
		s.writeError(w, r, apperrors.NewLLMTimeoutError())
	default:
		s.writeError(w, r, apperrors.NewLLMSynthesisFailedError(err))
	}
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.deps.Conversations.List(r.Context(), s.deps.ListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.deps.Conversations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Conversations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Accounts.SignUp(r.Context(), decodeObject(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"message": res.Message,
		"user_id": res.User.ID,
		"user":    res.User,
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Accounts.UpdateProfile(r.Context(), decodeObject(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        res.Message,
		"user_id":        res.User.ID,
		"updated_fields": res.UpdatedFields,
		"user":           res.User,
	})
}
