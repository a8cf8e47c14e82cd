package dialogue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Xu-Jack11/aipartner/internal/llm"
)

// UserHeader carries the caller's identity. Authentication happens upstream.
const UserHeader = "X-User-ID"

// AnonymousUser owns requests without an identity header.
const AnonymousUser = "anonymous"

// UserID returns the caller identity of r.
func UserID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(UserHeader)); id != "" {
		return id
	}
	return AnonymousUser
}

// RegisterRoutes mounts the dialogue API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/v1/dialogue/sessions", func(r chi.Router) {
		r.Get("/", handleListSessions(svc))
		r.Post("/", handleCreateSession(svc))
		r.Get("/{id}", handleGetSession(svc))
		r.Delete("/{id}", handleDeleteSession(svc))
		r.Post("/{id}/messages", handleSendMessage(svc))
	})
}

func handleListSessions(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := svc.ListSessions(r.Context(), UserID(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func handleCreateSession(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in CreateSessionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		sess, err := svc.CreateSession(r.Context(), UserID(r), in)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

func handleGetSession(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.GetSession(r.Context(), UserID(r), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleDeleteSession(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteSession(r.Context(), UserID(r), chi.URLParam(r, "id")); err != nil {
			WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSendMessage(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in SendMessageInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		msg, err := svc.SendMessage(r.Context(), UserID(r), chi.URLParam(r, "id"), in)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	var perr *llm.ProviderError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &perr), errors.Is(err, llm.ErrNoChoices):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body with the mapped status.
func WriteError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
