package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakePermissionAPI struct {
	supported bool
	state     PermissionState
	requests  int
	answer    PermissionState
}

func (f *fakePermissionAPI) Supported() bool        { return f.supported }
func (f *fakePermissionAPI) State() PermissionState { return f.state }
func (f *fakePermissionAPI) Request(ctx context.Context) (PermissionState, error) {
	f.requests++
	f.state = f.answer
	return f.answer, nil
}

type memPrefs struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemPrefs() *memPrefs { return &memPrefs{m: make(map[string]string)} }

func (p *memPrefs) Get(ctx context.Context, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m[key], nil
}

func (p *memPrefs) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
	return nil
}

func (p *memPrefs) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memPrefs) DeletePrefix(ctx context.Context, prefix string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := range p.m {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(p.m, k)
		}
	}
	return nil
}

// ---- tests ----

func newGate(api *fakePermissionAPI, prefs *memPrefs) *PermissionGate {
	return NewPermissionGate(api, prefs, nil, 7*24*time.Hour)
}

func TestGate_UnsupportedPlatform(t *testing.T) {
	api := &fakePermissionAPI{supported: false, state: PermissionDefault}
	gate := newGate(api, newMemPrefs())

	asked, err := gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.False(t, asked)
	require.Equal(t, 0, api.requests)
}

func TestGate_GrantedAndDeniedAreTerminal(t *testing.T) {
	for _, state := range []PermissionState{PermissionGranted, PermissionDenied} {
		api := &fakePermissionAPI{supported: true, state: state}
		gate := newGate(api, newMemPrefs())

		asked, err := gate.MaybeRequest(context.Background())
		require.NoError(t, err)
		require.False(t, asked, "state %s must never re-prompt", state)
		require.Equal(t, 0, api.requests)
	}
}

func TestGate_FirstAskRecordsTimestamp(t *testing.T) {
	api := &fakePermissionAPI{supported: true, state: PermissionDefault, answer: PermissionGranted}
	prefs := newMemPrefs()
	gate := newGate(api, prefs)

	asked, err := gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.True(t, asked)
	require.Equal(t, 1, api.requests)

	recorded, err := prefs.Get(context.Background(), prefsKeyPromptAskedAt)
	require.NoError(t, err)
	require.NotEmpty(t, recorded)
}

func TestGate_RecentDismissalSuppressesPrompt(t *testing.T) {
	api := &fakePermissionAPI{supported: true, state: PermissionDefault, answer: PermissionDefault}
	prefs := newMemPrefs()
	gate := newGate(api, prefs)

	now := time.Now()
	gate.nowFunc = func() time.Time { return now }

	asked, err := gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.True(t, asked)

	// next day: still dismissed, no prompt
	gate.nowFunc = func() time.Time { return now.Add(24 * time.Hour) }
	asked, err = gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.False(t, asked)
	require.Equal(t, 1, api.requests)
}

func TestGate_ReAsksAfterInterval(t *testing.T) {
	api := &fakePermissionAPI{supported: true, state: PermissionDefault, answer: PermissionDefault}
	prefs := newMemPrefs()
	gate := newGate(api, prefs)

	now := time.Now()
	gate.nowFunc = func() time.Time { return now }

	asked, err := gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.True(t, asked)

	gate.nowFunc = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	asked, err = gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.True(t, asked)
	require.Equal(t, 2, api.requests)
}

func TestGate_OnceGrantedNeverAgain(t *testing.T) {
	api := &fakePermissionAPI{supported: true, state: PermissionDefault, answer: PermissionGranted}
	prefs := newMemPrefs()
	gate := newGate(api, prefs)

	now := time.Now()
	gate.nowFunc = func() time.Time { return now }

	asked, err := gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.True(t, asked)

	// даже спустя месяц — платформа уже ответила
	gate.nowFunc = func() time.Time { return now.Add(30 * 24 * time.Hour) }
	asked, err = gate.MaybeRequest(context.Background())
	require.NoError(t, err)
	require.False(t, asked)
	require.Equal(t, 1, api.requests)
}
