// Package session tracks one duplication workflow per operator.
//
// Types:
//   - Session: Holds the uploaded source document, the signature capture
//     state, and the report of the last duplication run.
//   - SessionManager: Manages all active sessions.
//
// Expected outputs:
// - Session IDs are unique (UUID)
// - A session owns at most one source document and one committed area
// - Cleanup removes the source file from disk
//
// Used by API handlers to manage operator state.
package session

import (
	"os"
	"sync"
	"time"

	"go-duplicatepdf/internal/batch"
	"go-duplicatepdf/internal/coords"
	"go-duplicatepdf/internal/utils"
)

// Duplication status values guarding the batch action.
const (
	StatusIdle       = "idle"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

type Session struct {
	ID        string
	CreatedAt time.Time

	// Source document, stored on disk for the session's lifetime.
	SourcePath string
	SourceName string
	PageSizes  []coords.Size

	Capture *coords.Capture
	Report  *batch.Report
	Status  string

	Mutex sync.Mutex
}

type SessionManager struct {
	Sessions map[string]*Session
	Mutex    sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		Sessions: make(map[string]*Session),
	}
}

func (sm *SessionManager) CreateSession() *Session {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()

	session := &Session{
		ID:        utils.GenerateUUID(),
		CreatedAt: time.Now(),
		Capture:   coords.NewCapture(),
		Status:    StatusIdle,
	}
	sm.Sessions[session.ID] = session
	return session
}

func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.Mutex.RLock()
	defer sm.Mutex.RUnlock()
	session, exists := sm.Sessions[id]
	return session, exists
}

func (sm *SessionManager) DeleteSession(id string) {
	sm.Mutex.Lock()
	defer sm.Mutex.Unlock()
	delete(sm.Sessions, id)
}

// SetSource installs a new source document. Replacing the source discards
// the committed area and any previous report: the normalized area is only
// meaningful against the document it was captured on.
func (s *Session) SetSource(path, name string, sizes []coords.Size) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if s.SourcePath != "" && s.SourcePath != path {
		os.Remove(s.SourcePath)
	}
	s.SourcePath = path
	s.SourceName = name
	s.PageSizes = sizes
	s.Capture.Reset()
	s.Report = nil
	s.Status = StatusIdle
}

func (s *Session) Cleanup() {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if s.SourcePath != "" {
		os.Remove(s.SourcePath)
		s.SourcePath = ""
	}
	s.Report = nil
}
