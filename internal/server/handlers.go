package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/olehluchkiv/epwizard/internal/catalog"
	"github.com/olehluchkiv/epwizard/internal/wizard"
)

const maxRequestBytes = 1 << 20

type createRequest struct {
	Project string `json:"project"`
}

type valuesRequest struct {
	Values map[string]string `json:"values"`
}

type sessionResponse struct {
	Session sessionView     `json:"session"`
	Effects []wizard.Effect `json:"effects,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	project := req.Project
	if project == "" {
		project = s.project
	}

	sess, effects, err := s.ctrl.Start(r.Context(), project)
	if err != nil {
		s.logger.Error("starting session failed", "project", project, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	s.sessions.Store(sess.ID, &entry{session: sess})
	s.metrics.SessionOpened()
	s.logger.Info("session opened", "session", sess.ID, "project", project)

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Session: viewOf(sess), Effects: effects})
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request, sess *wizard.Session) {
	writeJSON(w, http.StatusOK, sessionResponse{Session: viewOf(sess)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.drop(r.PathValue("id"), "deleted") {
		writeError(w, http.StatusNotFound, errSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	var ev wizard.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch ev.Selector {
	case wizard.SelectorFilter, wizard.SelectorComponent, wizard.SelectorEndpointType,
		wizard.SelectorInstanceName, wizard.SelectorTarget:
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown selector %q", ev.Selector))
		return
	}
	effects := s.ctrl.Handle(r.Context(), sess, ev)
	writeJSON(w, http.StatusOK, sessionResponse{Session: viewOf(sess), Effects: effects})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	s.respond(w, sess, s.ctrl.Next(r.Context(), sess))
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	var req valuesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	keys := make([]string, 0, len(req.Values))
	for k := range req.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.ctrl.SetValue(sess, k, req.Values[k]); err != nil {
			s.respond(w, sess, err)
			return
		}
	}
	s.respond(w, sess, nil)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	s.respond(w, sess, s.ctrl.Advance(r.Context(), sess))
}

func (s *Server) handleBack(w http.ResponseWriter, _ *http.Request, sess *wizard.Session) {
	s.respond(w, sess, s.ctrl.Back(sess))
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request, sess *wizard.Session) {
	s.respond(w, sess, s.ctrl.Commit(r.Context(), sess))
}

// respond writes the session view, or the error with a status matching its
// kind.
func (s *Server) respond(w http.ResponseWriter, sess *wizard.Session, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, sessionResponse{Session: viewOf(sess)})
		return
	}
	s.logger.Debug("request rejected", "session", sess.ID, "state", sess.State, "error", err)
	writeJSON(w, statusOf(err), errorResponse{Error: err.Error(), Missing: wizard.MissingFields(err)})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrMissingRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrCatalogMiss), errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v. An empty body leaves v unchanged.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
