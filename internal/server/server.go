// Package server exposes the development HTTP JSON API. Handlers delegate
// to the usecase layer; no business logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/ports"
	"CuratorHub/internal/usecase"
)

// Server wires the library, intake and form workflows into HTTP handlers.
type Server struct {
	library  *usecase.Library
	intake   *usecase.Intake
	session  *usecase.FormSession
	basePath string
	logger   *slog.Logger
}

// New builds a server mounted under basePath ("/" for the root).
func New(library *usecase.Library, intake *usecase.Intake, session *usecase.FormSession, basePath string, logger *slog.Logger) *Server {
	return &Server{
		library:  library,
		intake:   intake,
		session:  session,
		basePath: normalizeBasePath(basePath),
		logger:   logger,
	}
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/articles", s.handleListArticles)
	mux.HandleFunc("POST /api/articles", s.handleSubmit)
	mux.HandleFunc("GET /api/articles/{id}", s.handleGetArticle)
	mux.HandleFunc("PUT /api/articles/{id}", s.handleUpdateArticle)
	mux.HandleFunc("DELETE /api/articles/{id}", s.handlePermanentDelete)
	mux.HandleFunc("POST /api/articles/{id}/trash", s.handleSoftDelete)
	mux.HandleFunc("POST /api/articles/{id}/restore", s.handleRestore)

	mux.HandleFunc("GET /api/trash", s.handleTrash)
	mux.HandleFunc("POST /api/trash/empty", s.handleEmptyTrash)

	mux.HandleFunc("GET /api/users/{id}/saved", s.handleSavedArticles)
	mux.HandleFunc("POST /api/users/{id}/saved/{articleID}", s.handleToggleSave)
	mux.HandleFunc("POST /api/users/{id}/read/{articleID}", s.handleMarkRead)

	mux.HandleFunc("GET /api/form", s.handleFormSnapshot)
	mux.HandleFunc("POST /api/form/url", s.handleFormURL)
	mux.HandleFunc("POST /api/form/fields", s.handleFormFields)
	mux.HandleFunc("POST /api/form/apikey", s.handleFormAPIKey)
	mux.HandleFunc("POST /api/form/submit", s.handleFormSubmit)

	if s.basePath == "" {
		return mux
	}
	outer := http.NewServeMux()
	outer.Handle(s.basePath+"/", http.StripPrefix(s.basePath, mux))
	return outer
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := s.library.Login(r.Context(), strings.TrimSpace(payload.Username))
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, userDTO(user))
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	tab := domain.Tab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = domain.TabLatest
	}
	if !domain.ValidTab(tab) {
		s.fail(w, http.StatusBadRequest, "unknown tab")
		return
	}

	sub := domain.Category(r.URL.Query().Get("category"))
	if sub == "" {
		sub = domain.FilterAll
	}
	if sub != domain.FilterAll && !domain.ValidCategory(sub) {
		s.fail(w, http.StatusBadRequest, "unknown category")
		return
	}

	active, err := s.library.Active(r.Context())
	if err != nil {
		s.error(w, err)
		return
	}

	view := usecase.BuildView(active, tab, sub)
	s.respond(w, http.StatusOK, viewDTO(view))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		URL         string `json:"url"`
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		APIKey      string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	article, err := s.intake.Submit(r.Context(), usecase.SubmitRequest{
		URL:         payload.URL,
		Type:        domain.ResourceType(payload.Type),
		Title:       payload.Title,
		Description: payload.Description,
		Category:    domain.Category(payload.Category),
		Author:      r.Header.Get("X-Username"),
		APIKey:      payload.APIKey,
	})
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusCreated, articleDTO(article))
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, articleDTO(article))
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.error(w, err)
		return
	}

	var payload articleJSON
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	article := payload.toDomain()
	article.ID = r.PathValue("id")

	if err := s.library.Update(r.Context(), actor, article); err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, articleDTO(article))
}

func (s *Server) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.error(w, err)
		return
	}

	article, err := s.library.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ports.ErrNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.error(w, err)
		return
	}
	if !actor.CanModify(article) {
		s.fail(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := s.library.SoftDelete(r.Context(), article.ID); err != nil {
		s.error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Restore(r.Context(), r.PathValue("id")); err != nil {
		s.error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.error(w, err)
		return
	}

	if err := s.library.PermanentDelete(r.Context(), r.PathValue("id")); err != nil {
		s.error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrash(w http.ResponseWriter, r *http.Request) {
	trashed, err := s.library.Trash(r.Context())
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, articlesDTO(trashed))
}

func (s *Server) handleEmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.error(w, err)
		return
	}

	if err := s.library.EmptyTrash(r.Context()); err != nil {
		s.error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSavedArticles(w http.ResponseWriter, r *http.Request) {
	saved, err := s.library.SavedArticles(r.Context(), r.PathValue("id"))
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, articlesDTO(saved))
}

func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	saved, err := s.library.ToggleSave(r.Context(), r.PathValue("id"), r.PathValue("articleID"))
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.library.MarkRead(r.Context(), r.PathValue("id"), r.PathValue("articleID")); err != nil {
		s.error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFormSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		s.fail(w, http.StatusServiceUnavailable, "form session unavailable")
		return
	}
	state, form := s.session.Snapshot()
	s.respond(w, http.StatusOK, formDTO(state, form))
}

func (s *Server) handleFormURL(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		s.fail(w, http.StatusServiceUnavailable, "form session unavailable")
		return
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.session.SetURL(strings.TrimSpace(payload.URL))
	state, form := s.session.Snapshot()
	s.respond(w, http.StatusOK, formDTO(state, form))
}

func (s *Server) handleFormFields(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		s.fail(w, http.StatusServiceUnavailable, "form session unavailable")
		return
	}

	var payload struct {
		Type        *string `json:"type"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	if payload.Type != nil {
		s.session.SetType(domain.ResourceType(*payload.Type))
	}
	if payload.Title != nil {
		s.session.SetTitle(*payload.Title)
	}
	if payload.Description != nil {
		s.session.SetDescription(*payload.Description)
	}
	if payload.Category != nil {
		s.session.SetCategory(domain.Category(*payload.Category))
	}

	state, form := s.session.Snapshot()
	s.respond(w, http.StatusOK, formDTO(state, form))
}

func (s *Server) handleFormAPIKey(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		s.fail(w, http.StatusServiceUnavailable, "form session unavailable")
		return
	}

	var payload struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.session.ProvideAPIKey(payload.APIKey)
	state, form := s.session.Snapshot()
	s.respond(w, http.StatusOK, formDTO(state, form))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if s.session == nil {
		s.fail(w, http.StatusServiceUnavailable, "form session unavailable")
		return
	}

	article, err := s.session.Submit(r.Context(), r.Header.Get("X-Username"))
	if err != nil {
		s.error(w, err)
		return
	}
	s.respond(w, http.StatusCreated, articleDTO(article))
}

// actor resolves the acting user from the X-Username header,
// auto-registering unknown names.
func (s *Server) actor(r *http.Request) (domain.User, error) {
	name := strings.TrimSpace(r.Header.Get("X-Username"))
	return s.library.Login(r.Context(), name)
}

func (s *Server) requireAdmin(r *http.Request) error {
	actor, err := s.actor(r)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return usecase.ErrForbidden
	}
	return nil
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.warn("encode response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, map[string]string{"error": message})
}

func (s *Server) error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		s.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		s.fail(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ports.ErrNotFound):
		s.fail(w, http.StatusNotFound, "not found")
	default:
		s.warn("request failed", "error", err)
		s.fail(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func normalizeBasePath(basePath string) string {
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		return ""
	}
	return "/" + basePath
}
