package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cosmos-mcp/pkg/logging"
)

// SessionState is the lifecycle position of a session.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateInitialized
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one client conversation with the gateway.
//
// Uninitialized -> Initialized on a successful handshake; any state -> Closed
// on teardown. Discovery and calls are only allowed while Initialized.
// Closing cancels the session context, which stops in-flight streams.
type Session struct {
	id string
	gw *Gateway

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	state SessionState
}

// NewSession creates an uninitialized session bound to parent.
func (g *Gateway) NewSession(parent context.Context, id string) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{id: id, gw: g, ctx: ctx, cancel: cancel}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Handshake moves the session to Initialized.
func (s *Session) Handshake() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
		s.state = StateInitialized
		return nil
	case StateClosed:
		return ErrSessionClosed
	default:
		return fmt.Errorf("session %s already initialized", s.id)
	}
}

// Ready returns nil while the session is Initialized and the lifecycle
// error that blocks discovery and calls otherwise.
func (s *Session) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case StateInitialized:
		return nil
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrSessionNotInitialized
	}
}

// List returns the registered tools.
func (s *Session) List() ([]Metadata, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	return s.gw.List(), nil
}

// Call dispatches req. The returned error only reports lifecycle violations;
// tool failures are carried in the result text.
func (s *Session) Call(ctx context.Context, req CallRequest) (CallResult, error) {
	if err := s.Ready(); err != nil {
		return CallResult{CorrelationID: req.CorrelationID}, err
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	return s.gw.Call(callCtx, req), nil
}

// Close ends the session. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.cancel()
}

// SessionObserver is implemented by observers that also track session
// lifetimes. The gateway's Observer is checked for it.
type SessionObserver interface {
	SessionOpened(ctx context.Context)
	SessionClosed(ctx context.Context)
}

// Sessions is the concurrent table of live sessions, keyed by id.
type Sessions struct {
	gw *Gateway

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty session table for gw.
func NewSessions(gw *Gateway) *Sessions {
	return &Sessions{gw: gw, sessions: make(map[string]*Session)}
}

// Open returns the session for id, creating it if needed.
func (t *Sessions) Open(parent context.Context, id string) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.sessions[id]; ok {
		return s
	}
	s := t.gw.NewSession(parent, id)
	t.sessions[id] = s
	if obs, ok := t.gw.observer.(SessionObserver); ok {
		obs.SessionOpened(parent)
	}
	logging.Debug("Gateway", "Session %s opened", logging.TruncateSessionID(id))
	return s
}

// Get returns the session for id.
func (t *Sessions) Get(id string) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

// Close closes and forgets the session for id.
func (t *Sessions) Close(id string) {
	t.mu.Lock()
	s, ok := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()

	if ok {
		s.Close()
		t.observeClosed(1)
		logging.Debug("Gateway", "Session %s closed", logging.TruncateSessionID(id))
	}
}

// CloseAll closes every session.
func (t *Sessions) CloseAll() {
	t.mu.Lock()
	all := t.sessions
	t.sessions = make(map[string]*Session)
	t.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	t.observeClosed(len(all))
}

func (t *Sessions) observeClosed(n int) {
	obs, ok := t.gw.observer.(SessionObserver)
	if !ok {
		return
	}
	for range n {
		obs.SessionClosed(context.Background())
	}
}

// Len returns the number of live sessions.
func (t *Sessions) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// IDs returns the ids of all live sessions, sorted.
func (t *Sessions) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
