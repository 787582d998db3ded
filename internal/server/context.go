package server

import (
	"context"
	"sync"

	"github.com/johnie/gmcp-sub000/internal/calendar"
	"github.com/johnie/gmcp-sub000/internal/gmail"
	"github.com/johnie/gmcp-sub000/internal/google"
	"github.com/johnie/gmcp-sub000/internal/instrumentation"
)

// Config holds the settings a ServerContext is built from.
type Config struct {
	// CredentialsPath points at the OAuth client credentials file.
	CredentialsPath string

	// TokenPath points at the stored user token.
	TokenPath string

	// Yolo enables the destructive tools (send, trash, delete).
	Yolo bool
}

// ServerContext holds the shared state of the MCP server. The Google
// session and API clients are created lazily on first use, so the
// server can start before any token exists and report a useful error
// from the first tool call instead.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	config Config

	metrics *instrumentation.Metrics

	mu             sync.Mutex
	session        *google.Session
	gmailClient    *gmail.Client
	calendarClient *calendar.Client
	shutdown       bool
}

// NewServerContext creates a server context. No credentials are read
// until a client is requested.
func NewServerContext(ctx context.Context, config Config) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		config: config,
	}
}

// Context returns the server's lifetime context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Yolo reports whether destructive tools are enabled.
func (sc *ServerContext) Yolo() bool {
	return sc.config.Yolo
}

// SetMetrics attaches a metrics recorder. Safe to leave unset; a nil
// recorder records nothing.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.metrics = m
}

// Metrics returns the attached metrics recorder, possibly nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Session returns the Google session, creating it on first call by
// loading credentials and the stored token.
func (sc *ServerContext) Session() (*google.Session, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sessionLocked()
}

func (sc *ServerContext) sessionLocked() (*google.Session, error) {
	if sc.session != nil {
		return sc.session, nil
	}

	cfg, err := google.LoadCredentials(sc.config.CredentialsPath)
	if err != nil {
		return nil, err
	}
	store := google.NewTokenStore(sc.config.TokenPath)

	session, err := google.NewSession(sc.ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	if metrics := sc.metrics; metrics != nil {
		session.SetRefreshObserver(func(err error) {
			result := instrumentation.StatusSuccess
			if err != nil {
				result = instrumentation.StatusError
			}
			metrics.RecordTokenRefresh(sc.ctx, result)
		})
	}
	sc.session = session
	return session, nil
}

// GmailClient returns the Gmail client, creating it on first call.
func (sc *ServerContext) GmailClient() (*gmail.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.gmailClient != nil {
		return sc.gmailClient, nil
	}

	session, err := sc.sessionLocked()
	if err != nil {
		return nil, err
	}
	client, err := gmail.NewClient(sc.ctx, session)
	if err != nil {
		return nil, err
	}
	sc.gmailClient = client
	return client, nil
}

// CalendarClient returns the Calendar client, creating it on first
// call.
func (sc *ServerContext) CalendarClient() (*calendar.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.calendarClient != nil {
		return sc.calendarClient, nil
	}

	session, err := sc.sessionLocked()
	if err != nil {
		return nil, err
	}
	client, err := calendar.NewClient(sc.ctx, session)
	if err != nil {
		return nil, err
	}
	sc.calendarClient = client
	return client, nil
}

// Shutdown cancels the server context. Further client creation fails
// with the context error.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.shutdown {
		return
	}
	sc.shutdown = true
	sc.cancel()
}

// IsShuttingDown reports whether Shutdown has been called.
func (sc *ServerContext) IsShuttingDown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}
