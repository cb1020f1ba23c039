// Package api exposes the session tracker over a localhost HTTP API for the
// browser UI. State only ever changes through the tracker, so the handlers
// are thin translations between HTTP and tracker calls.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jub0bs/fcors"

	"github.com/clockwise-hq/clockwise/internal/identity"
	"github.com/clockwise-hq/clockwise/internal/remote"
	"github.com/clockwise-hq/clockwise/internal/session"
)

// Server serves the session API.
type Server struct {
	tracker *session.Tracker
}

// NewHandler builds the routed, CORS-wrapped handler. The browser UI is
// served from a different origin, so cross-origin access is allowed for the
// two methods the API uses.
func NewHandler(tracker *session.Tracker) (http.Handler, error) {
	s := &Server{tracker: tracker}

	r := mux.NewRouter()
	r.HandleFunc("/api/session", s.handleSession).Methods(http.MethodGet)
	r.HandleFunc("/api/session/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/api/session/pause", s.handlePause).Methods(http.MethodPost)
	r.HandleFunc("/api/session/resume", s.handleResume).Methods(http.MethodPost)
	r.HandleFunc("/api/session/end", s.handleEnd).Methods(http.MethodPost)
	r.HandleFunc("/api/sync", s.handleSync).Methods(http.MethodPost)

	cors, err := fcors.AllowAccess(
		fcors.FromAnyOrigin(),
		fcors.WithMethods(http.MethodGet, http.MethodPost),
		fcors.WithRequestHeaders("Content-Type"),
	)
	if err != nil {
		return nil, err
	}
	return cors(r), nil
}

type sessionPayload struct {
	State          string              `json:"state"`
	StartTime      *time.Time          `json:"start_time,omitempty"`
	ElapsedSeconds int64               `json:"elapsed_seconds"`
	Elapsed        string              `json:"elapsed"`
	IsPaused       bool                `json:"is_paused"`
	PausedSeconds  int64               `json:"total_paused_seconds"`
	LastSync       *time.Time          `json:"last_sync,omitempty"`
	Location       *remote.Coordinates `json:"location,omitempty"`
	CompanyID      string              `json:"company_id,omitempty"`
	Offline        bool                `json:"offline"`
}

func (s *Server) payload() sessionPayload {
	snap := s.tracker.Snapshot()
	p := sessionPayload{
		State:          snap.State.String(),
		ElapsedSeconds: int64(snap.Elapsed / time.Second),
		Elapsed:        session.FormatDuration(snap.Elapsed),
		IsPaused:       snap.State == session.StatePaused,
		PausedSeconds:  int64(snap.TotalPaused / time.Second),
		Location:       snap.Location,
		CompanyID:      snap.CompanyID,
		Offline:        s.tracker.Offline(),
	}
	if !snap.StartTime.IsZero() {
		t := snap.StartTime
		p.StartTime = &t
	}
	if !snap.LastSync.IsZero() {
		t := snap.LastSync
		p.LastSync = &t
	}
	return p
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.payload())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Start(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.payload())
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Pause(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.payload())
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Resume(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.payload())
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	worked, err := s.tracker.End(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"worked_seconds": int64(worked / time.Second),
		"worked":         session.FormatDuration(worked),
		"session":        s.payload(),
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ForceSync(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.payload())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var remoteErr *session.RemoteWriteError
	var status int
	switch {
	case errors.Is(err, identity.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, identity.ErrNoCompanyContext):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrAlreadyClockedIn),
		errors.Is(err, session.ErrAlreadyPaused),
		errors.Is(err, session.ErrNotPaused):
		status = http.StatusConflict
	case errors.As(err, &remoteErr):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
