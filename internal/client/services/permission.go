package services

import (
	"context"
	"time"

	"github.com/talentlink/talentlink-client/internal/client/repositories/prefs"
	"github.com/talentlink/talentlink-client/internal/logging"
)

// PermissionState is the platform's notification-permission answer.
type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// PermissionAPI abstracts the platform's one-shot notification-permission
// prompt.
type PermissionAPI interface {
	Supported() bool
	State() PermissionState
	Request(ctx context.Context) (PermissionState, error)
}

// Presenter surfaces a notification to the user. Both methods are
// best-effort presentation side effects, never correctness-relevant.
type Presenter interface {
	// Notify raises a platform-level notification.
	Notify(title, message string)

	// Toast shows an in-app toast.
	Toast(message string)
}

// prefsKeyPromptAskedAt records when the permission prompt was last shown.
const prefsKeyPromptAskedAt = "notifications.prompt_asked_at"

// defaultPromptReAsk is how long a dismissal suppresses the prompt.
const defaultPromptReAsk = 7 * 24 * time.Hour

// PermissionGate throttles the platform permission prompt. The prompt is a
// one-shot, user-facing browser affordance: once the platform records
// granted or denied the gate must never prompt again, and a dismissal
// (state stays default) suppresses re-asking for the configured interval.
type PermissionGate struct {
	api     PermissionAPI
	prefs   prefs.Repository
	log     logging.Logger
	reAsk   time.Duration
	nowFunc func() time.Time
}

func NewPermissionGate(api PermissionAPI, prefs prefs.Repository, log logging.Logger, reAsk time.Duration) *PermissionGate {
	if log == nil {
		log = logging.NewDefault()
	}
	if reAsk <= 0 {
		reAsk = defaultPromptReAsk
	}
	return &PermissionGate{api: api, prefs: prefs, log: log, reAsk: reAsk, nowFunc: time.Now}
}

// MaybeRequest shows the prompt when every condition holds: the platform
// supports it, the permission is still undecided, and the user either was
// never asked or dismissed long enough ago. Returns whether the prompt was
// shown.
func (g *PermissionGate) MaybeRequest(ctx context.Context) (bool, error) {
	if g.api == nil || !g.api.Supported() {
		return false, nil
	}
	if g.api.State() != PermissionDefault {
		// granted/denied are terminal, never re-prompt
		return false, nil
	}

	askedAt, err := g.lastAskedAt(ctx)
	if err != nil {
		return false, err
	}
	now := g.nowFunc()
	if !askedAt.IsZero() && now.Sub(askedAt) < g.reAsk {
		return false, nil
	}

	state, err := g.api.Request(ctx)
	if recErr := g.prefs.Set(ctx, prefsKeyPromptAskedAt, now.UTC().Format(time.RFC3339)); recErr != nil {
		g.log.Warn(ctx, "failed to record permission prompt time", "error", recErr)
	}
	if err != nil {
		return true, err
	}

	g.log.Info(ctx, "notification permission prompt answered", "state", string(state))
	return true, nil
}

func (g *PermissionGate) lastAskedAt(ctx context.Context) (time.Time, error) {
	raw, err := g.prefs.Get(ctx, prefsKeyPromptAskedAt)
	if err != nil || raw == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// unreadable record, treat as never asked
		return time.Time{}, nil
	}
	return t, nil
}
