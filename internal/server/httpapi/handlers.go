package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gastrolog/internal/common"
	"github.com/dmitrijs2005/gastrolog/internal/server/auth"
	"github.com/dmitrijs2005/gastrolog/internal/server/classifier"
	"github.com/dmitrijs2005/gastrolog/internal/server/models"
)

type logsBody struct {
	Logs []models.LogRecord `json:"logs"`
}

type itemsBody struct {
	Items []string `json:"items"`
}

type analyzeBody struct {
	Image string `json:"image,omitempty"`
	Memo  string `json:"memo"`
	Model string `json:"model,omitempty"`
}

type ingredientsBody struct {
	Ingredients []string `json:"ingredients"`
}

type successBody struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func userID(r *http.Request) (string, error) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}

func (s *HTTPServer) listLogs(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	recs, err := s.logs.List(r.Context(), uid)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, logsBody{Logs: recs})
}

func (s *HTTPServer) saveLogs(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	var in logsBody
	if err := decode(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	n, err := s.logs.Save(r.Context(), uid, in.Logs)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true, Count: &n})
}

func (s *HTTPServer) deleteLog(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.logs.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *HTTPServer) getSafeList(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	items, err := s.safeList.Get(r.Context(), uid)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsBody{Items: items})
}

func (s *HTTPServer) saveSafeList(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	var in itemsBody
	if err := decode(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if _, err := s.safeList.Save(r.Context(), uid, in.Items); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *HTTPServer) analyze(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	var in analyzeBody
	if err := decode(r, &in); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	ingredients, err := s.analysis.Analyze(r.Context(), uid, classifier.Request{
		Image: in.Image,
		Memo:  in.Memo,
		Model: in.Model,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if ingredients == nil {
		ingredients = []string{}
	}
	writeJSON(w, http.StatusOK, ingredientsBody{Ingredients: ingredients})
}
