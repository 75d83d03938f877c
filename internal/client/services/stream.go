package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/logging"
)

// StreamState is the notification stream's connection state.
type StreamState int

const (
	StreamDisconnected StreamState = iota
	StreamConnecting
	StreamConnected
	StreamError
)

func (s StreamState) String() string {
	switch s {
	case StreamConnecting:
		return "connecting"
	case StreamConnected:
		return "connected"
	case StreamError:
		return "error"
	default:
		return "disconnected"
	}
}

const (
	defaultMaxReconnectAttempts = 5
	defaultReconnectBaseDelay   = time.Second
)

// StreamManagerOptions wires the stream manager. URL and Session are
// required; the rest have working defaults.
type StreamManagerOptions struct {
	// URL is the SSE endpoint. The access token is appended as a query
	// parameter since the transport cannot carry custom headers.
	URL     string
	Session *SessionManager

	Logger    logging.Logger
	Presenter Presenter
	Gate      *PermissionGate

	// HTTPClient lets tests inject a transport. The default has no
	// timeout: the stream is long-lived by design.
	HTTPClient *http.Client

	// MaxAttempts caps automatic reconnects (default 5).
	MaxAttempts int

	// BaseDelay is the first reconnect delay; each further attempt doubles
	// it (default 1s).
	BaseDelay time.Duration
}

// StreamManager owns at most one live server-push connection, multiplexes
// its messages to topic subscribers or the general inbox, and recovers from
// drops with bounded exponential backoff.
type StreamManager struct {
	url       string
	session   *SessionManager
	log       logging.Logger
	presenter Presenter
	gate      *PermissionGate
	http      *http.Client

	maxAttempts int
	baseDelay   time.Duration

	inbox  *Inbox
	topics *TopicRegistry

	mu             sync.Mutex
	state          StreamState
	attempts       int
	gen            int
	baseCtx        context.Context
	cancel         context.CancelFunc
	reconnectTimer *time.Timer
}

func NewStreamManager(opts StreamManagerOptions) *StreamManager {
	log := opts.Logger
	if log == nil {
		log = logging.NewDefault()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxReconnectAttempts
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultReconnectBaseDelay
	}
	return &StreamManager{
		url:         opts.URL,
		session:     opts.Session,
		log:         log,
		presenter:   opts.Presenter,
		gate:        opts.Gate,
		http:        httpClient,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		inbox:       NewInbox(),
		topics:      NewTopicRegistry(log),
	}
}

// FollowSession ties the connection to the session manager's authenticated
// state: connect on login, disconnect on logout/clear.
func (m *StreamManager) FollowSession(ctx context.Context) {
	m.session.OnAuthChange(func(authenticated bool) {
		if authenticated {
			m.Connect(ctx)
		} else {
			m.Disconnect()
		}
	})
}

// Inbox exposes the general notification inbox.
func (m *StreamManager) Inbox() *Inbox {
	return m.inbox
}

// Subscribe registers a callback for a named topic. Messages on a
// subscribed topic bypass the general inbox.
func (m *StreamManager) Subscribe(topic string, fn TopicCallback) (unsubscribe func()) {
	return m.topics.Subscribe(topic, fn)
}

// ActiveTopics lists the currently subscribed topic names.
func (m *StreamManager) ActiveTopics() []string {
	return m.topics.ActiveTopics()
}

// State returns the current connection state.
func (m *StreamManager) State() StreamState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect opens the push connection. It is a no-op when not authenticated;
// an existing connection is closed first so at most one is ever live.
func (m *StreamManager) Connect(ctx context.Context) {
	if !m.session.IsAuthenticated() {
		m.log.Debug(ctx, "stream connect skipped, not authenticated")
		return
	}
	token := m.session.AccessToken()

	m.mu.Lock()
	m.stopLocked()
	gen := m.gen
	m.state = StreamConnecting
	// Reconnects are scheduled against the caller's context, never the
	// per-connection child cancelled on failure.
	m.baseCtx = ctx
	connCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(connCtx, gen, token)
}

// Disconnect closes any live connection, cancels a pending reconnect, and
// settles in the disconnected state. A cancelled reconnect must never fire
// afterwards and silently reopen a stream with a stale token.
func (m *StreamManager) Disconnect() {
	m.mu.Lock()
	m.stopLocked()
	m.state = StreamDisconnected
	m.mu.Unlock()
	m.log.Debug(context.Background(), "notification stream disconnected")
}

// stopLocked invalidates the current connection generation, cancels the
// read goroutine, and stops any scheduled reconnect. Callers hold m.mu.
func (m *StreamManager) stopLocked() {
	m.gen++
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *StreamManager) streamURL(token string) (string, error) {
	u, err := url.Parse(m.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (m *StreamManager) run(ctx context.Context, gen int, token string) {
	target, err := m.streamURL(token)
	if err != nil {
		m.onConnectionError(ctx, gen, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		m.onConnectionError(ctx, gen, err)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := m.http.Do(req)
	if err != nil {
		m.onConnectionError(ctx, gen, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.onConnectionError(ctx, gen, fmt.Errorf("unexpected stream status: %s", resp.Status))
		return
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state = StreamConnected
	m.attempts = 0
	m.mu.Unlock()
	m.log.Info(ctx, "notification stream connected")

	if m.gate != nil {
		go func() {
			if _, err := m.gate.MaybeRequest(ctx); err != nil {
				m.log.Warn(ctx, "notification permission prompt failed", "error", err)
			}
		}()
	}

	m.readLoop(ctx, gen, resp)
}

// readLoop consumes SSE frames until the connection drops or the context
// is cancelled. Only "data:" fields matter; comments and unknown fields
// are skipped per the SSE framing rules.
func (m *StreamManager) readLoop(ctx context.Context, gen int, resp *http.Response) {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				m.handleMessage(ctx, strings.Join(data, "\n"))
				data = data[:0]
			}
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, ":"):
			// comment / transport keep-alive
		default:
			// event/id/retry fields are unused by the backend
		}
	}

	if ctx.Err() != nil {
		// deliberate disconnect
		return
	}
	err := scanner.Err()
	if err == nil {
		err = fmt.Errorf("stream closed by server")
	}
	m.onConnectionError(ctx, gen, err)
}

// onConnectionError drives the reconnection state machine: below the
// attempt ceiling the next try is scheduled after baseDelay·2^attempt;
// at the ceiling the manager settles disconnected until an explicit
// Connect (e.g. on re-authentication).
func (m *StreamManager) onConnectionError(ctx context.Context, gen int, err error) {
	m.mu.Lock()
	if gen != m.gen {
		// a newer connection or a Disconnect superseded this one
		m.mu.Unlock()
		return
	}
	m.state = StreamError
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if m.attempts >= m.maxAttempts {
		m.state = StreamDisconnected
		m.mu.Unlock()
		m.log.Error(ctx, "notification stream reconnect attempts exhausted", "error", err)
		return
	}

	delay := m.baseDelay << m.attempts
	m.attempts++
	attempt := m.attempts
	m.state = StreamDisconnected
	base := m.baseCtx
	m.reconnectTimer = time.AfterFunc(delay, func() {
		m.Connect(base)
	})
	m.mu.Unlock()

	m.log.Warn(ctx, "notification stream dropped, reconnect scheduled",
		"error", err, "attempt", attempt, "delay", delay)
}

// handleMessage routes one inbound event. Ordered checks, first match wins:
// heartbeats and connection acks are dropped, a subscribed topic delivers
// to its callbacks only, everything else lands in the general inbox.
func (m *StreamManager) handleMessage(ctx context.Context, data string) {
	var msg models.StreamMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		m.log.Warn(ctx, "undecodable stream message", "error", err)
		return
	}

	switch msg.Type {
	case models.MessageTypeHeartbeat, models.MessageTypeConnection:
		return
	}

	if msg.Topic != "" {
		if delivered := m.topics.Publish(msg); delivered > 0 {
			return
		}
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}
	n := &models.Notification{
		ID:         id,
		Message:    msg.Message,
		Topic:      msg.Topic,
		ReceivedAt: time.Now().UTC(),
	}
	if !m.inbox.Add(n) {
		return
	}

	if m.presenter != nil {
		m.presenter.Notify("TalentLink", msg.Message)
		m.presenter.Toast(msg.Message)
	}
}
