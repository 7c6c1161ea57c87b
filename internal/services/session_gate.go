package services

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alfredoptarigan/career-copilot/internal/metrics"
)

type GateState string

const (
	StateUnauthenticated GateState = "unauthenticated"
	StateAuthenticating  GateState = "authenticating"
	StateAuthenticated   GateState = "authenticated"
)

const (
	StatusVerifyingFace = "Verifying face..."
	StatusLoginSuccess  = "Login Successful!"
	StatusLoginFailed   = "Login Failed."
)

// Session is the presentation view of the gate.
type Session struct {
	ID            string    `json:"id"`
	State         GateState `json:"state"`
	Authenticated bool      `json:"authenticated"`
	StatusMessage string    `json:"status_message"`
}

type loginRequest struct {
	Image string `json:"image"`
}

// SessionGate decides whether the workflows are reachable. Authenticated is
// terminal for the lifetime of the process.
type SessionGate struct {
	id         string
	capture    CaptureSource
	dispatcher Dispatcher
	delay      time.Duration
	schedule   func(time.Duration, func())
	logger     zerolog.Logger

	mu     sync.Mutex
	state  GateState
	status string
	ready  chan struct{}
}

type GateOption func(*SessionGate)

func WithGateLogger(logger zerolog.Logger) GateOption {
	return func(g *SessionGate) {
		g.logger = logger
	}
}

// WithScheduler replaces time.AfterFunc for the delayed transition.
func WithScheduler(schedule func(time.Duration, func())) GateOption {
	return func(g *SessionGate) {
		if schedule != nil {
			g.schedule = schedule
		}
	}
}

func NewSessionGate(capture CaptureSource, dispatcher Dispatcher, delay time.Duration, opts ...GateOption) *SessionGate {
	g := &SessionGate{
		id:         uuid.NewString(),
		capture:    capture,
		dispatcher: dispatcher,
		delay:      delay,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: zerolog.Nop(),
		state:  StateUnauthenticated,
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Attempt captures a frame and submits it to the login endpoint. Without a
// frame the call changes nothing and returns ErrCameraNotReady. On success the
// switch to authenticated happens after the configured delay, never inside
// Attempt. Every login failure resets the gate to unauthenticated with the same
// status message; the returned error keeps the cause for logging.
func (g *SessionGate) Attempt(ctx context.Context) error {
	g.mu.Lock()
	err := g.admit()
	g.mu.Unlock()
	if err != nil {
		return err
	}

	// The capture may hit the disk; state readers must not wait on it.
	frame, err := g.capture.Capture(ctx)
	if err != nil {
		return errors.Wrap(err, "capture frame")
	}
	if frame == nil {
		metrics.IncLoginAttempt("no_frame")
		g.logger.Debug().Msg("login ignored: no camera frame available")
		return ErrCameraNotReady
	}

	g.mu.Lock()
	if err := g.admit(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.state = StateAuthenticating
	g.status = StatusVerifyingFace
	g.mu.Unlock()

	g.logger.Info().Str("session_id", g.id).Int("frame_bytes", len(frame.Data)).Msg("🔐 Verifying face")

	_, err = g.dispatcher.Send(context.WithoutCancel(ctx), EndpointLogin, loginRequest{Image: frame.DataURL()})
	// The login body is opaque: only the HTTP outcome matters.
	if err != nil && !errors.Is(err, ErrMalformedResponse) {
		g.mu.Lock()
		g.state = StateUnauthenticated
		g.status = StatusLoginFailed
		g.mu.Unlock()

		metrics.IncLoginAttempt("failure")
		g.logger.Warn().Err(err).Str("kind", ErrorKind(err)).Msg("❌ Login failed")
		return errors.WithHint(err, StatusLoginFailed)
	}

	g.mu.Lock()
	g.status = StatusLoginSuccess
	g.mu.Unlock()

	metrics.IncLoginAttempt("success")
	g.logger.Info().Dur("transition_delay", g.delay).Msg("✅ Login successful")

	g.schedule(g.delay, g.completeLogin)
	return nil
}

// admit reports whether a new attempt may start. Callers hold g.mu.
func (g *SessionGate) admit() error {
	switch g.state {
	case StateAuthenticating:
		return ErrLoginInProgress
	case StateAuthenticated:
		return ErrAlreadyLoggedIn
	}
	return nil
}

func (g *SessionGate) completeLogin() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticating {
		return
	}
	g.state = StateAuthenticated
	close(g.ready)
}

func (g *SessionGate) Session() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Session{
		ID:            g.id,
		State:         g.state,
		Authenticated: g.state == StateAuthenticated,
		StatusMessage: g.status,
	}
}

func (g *SessionGate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateAuthenticated
}

// WaitAuthenticated blocks until the delayed transition has happened.
func (g *SessionGate) WaitAuthenticated(ctx context.Context) error {
	select {
	case <-g.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
