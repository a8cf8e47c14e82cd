package planning

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Xu-Jack11/aipartner/internal/dialogue"
)

// RegisterRoutes mounts the plan API routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/v1/plans", func(r chi.Router) {
		r.Get("/", handleListPlans(svc))
		r.Post("/generate", handleGenerate(svc))
		r.Get("/{id}", handleGetPlan(svc))
		r.Delete("/{id}", handleDeletePlan(svc))
		r.Patch("/{id}/tasks/{taskId}", handleUpdateTask(svc))
	})
}

func handleListPlans(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := svc.ListPlans(r.Context(), dialogue.UserID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plans)
	}
}

func handleGenerate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in GenerateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		plan, err := svc.GenerateFromSession(r.Context(), dialogue.UserID(r), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, plan)
	}
}

func handleGetPlan(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plan, err := svc.GetPlan(r.Context(), dialogue.UserID(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func handleDeletePlan(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePlan(r.Context(), dialogue.UserID(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type updateTaskRequest struct {
	Status string `json:"status"`
}

func handleUpdateTask(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		plan, err := svc.UpdateTaskStatus(r.Context(), dialogue.UserID(r),
			chi.URLParam(r, "id"), chi.URLParam(r, "taskId"), body.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := dialogue.StatusFor(err)
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidStatus):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
