package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sethvargo/go-retry"

	"github.com/talentlink/talentlink-client/internal/client/api"
	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/common"
)

// verifyState models the verification flow explicitly so the
// "refresh before giving up" contract stays auditable: a verification
// failure first attempts a silent refresh, and only an exhausted recovery
// tears the session down.
type verifyState int

const (
	stateVerifying verifyState = iota
	stateRefreshing
	stateVerified
	stateCleared
)

// Restore loads any persisted session at process start.
//
//   - expired access token: the persisted session is discarded outright;
//   - token younger than the freshness window: trusted as-is, no network;
//   - otherwise: verified against the backend via Verify.
func (m *SessionManager) Restore(ctx context.Context) error {
	s, err := m.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted session: %w", err)
	}
	if s == nil || s.AccessToken == "" {
		return nil
	}

	iat, exp, err := tokenTimes(s.AccessToken)
	if err != nil {
		m.log.Warn(ctx, "stored access token is not decodable, discarding session", "error", err)
		m.clearLocalState(ctx)
		return nil
	}

	now := m.now()
	if !exp.IsZero() && now.After(exp) {
		m.log.Info(ctx, "stored access token expired, discarding session")
		m.clearLocalState(ctx)
		return nil
	}

	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	if m.cookies != nil {
		m.cookies.SetAuth(s.AccessToken, s.UserType)
	}

	if !iat.IsZero() && now.Sub(iat) <= m.freshness {
		// Written by a login moments before this start; skip the redundant
		// round trip.
		m.log.Debug(ctx, "restored fresh session without verification", "user", s.User.ID)
		m.notifyAuthChange(true)
		return nil
	}

	return m.Verify(ctx)
}

// Verify checks the current access token against the backend and updates
// user/role on success.
//
// Failure handling is deliberately lopsided. Transport-level trouble is
// retried briefly and then leaves the session alone — an offline start
// should not log the user out. An authoritative rejection attempts one
// silent refresh; only when that recovery is unavailable or fails is the
// session cleared. While a logout is in flight Verify is a no-op.
func (m *SessionManager) Verify(ctx context.Context) error {
	m.mu.Lock()
	if m.loggingOut || m.session == nil || m.session.AccessToken == "" {
		m.mu.Unlock()
		return nil
	}
	token := m.session.AccessToken
	m.mu.Unlock()

	state := stateVerifying
	refreshed := false

	for {
		switch state {
		case stateVerifying:
			result, err := m.verifyWithRetry(ctx, token)
			switch {
			case err == nil:
				if aerr := m.applyVerifyResult(ctx, result); aerr != nil {
					return aerr
				}
				state = stateVerified

			case errors.Is(err, api.ErrUnavailable):
				// Transient: keep the session, re-verified on a later start.
				m.log.Warn(ctx, "verification unreachable, keeping session", "error", err)
				return fmt.Errorf("%w: %v", common.ErrVerificationFailed, err)

			default:
				m.mu.Lock()
				canRefresh := !refreshed && !m.loggingOut && m.session != nil && m.session.RefreshToken != ""
				m.mu.Unlock()
				if canRefresh {
					state = stateRefreshing
				} else {
					state = stateCleared
				}
			}

		case stateRefreshing:
			refreshed = true
			newToken, err := m.RefreshAccessToken(ctx)
			if err != nil {
				// RefreshAccessToken already cleared the session.
				return fmt.Errorf("%w: %v", common.ErrVerificationFailed, err)
			}
			token = newToken
			state = stateVerifying

		case stateVerified:
			return nil

		case stateCleared:
			m.mu.Lock()
			skip := m.loggingOut
			m.mu.Unlock()
			if !skip {
				m.log.Info(ctx, "verification failed beyond recovery, clearing session")
				m.clearLocalState(ctx)
				m.notifyAuthChange(false)
			}
			return common.ErrVerificationFailed
		}
	}
}

// verifyWithRetry calls the verify endpoint, retrying unavailable-class
// errors a couple of times with exponential backoff before reporting them.
func (m *SessionManager) verifyWithRetry(ctx context.Context, token string) (*api.VerifyResult, error) {
	var result *api.VerifyResult

	backoff := retry.WithMaxRetries(2, retry.NewExponential(m.verifyRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := m.client.VerifyToken(ctx, token)
		if err != nil {
			if errors.Is(err, api.ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyVerifyResult refreshes user/role from the backend's answer, in
// memory and in the persisted row.
func (m *SessionManager) applyVerifyResult(ctx context.Context, result *api.VerifyResult) error {
	var user models.User
	if err := json.Unmarshal(result.User, &user); err != nil {
		return fmt.Errorf("failed to decode verified user: %w", err)
	}
	user.Raw = append(json.RawMessage(nil), result.User...)

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil
	}
	m.session.User = &user
	m.session.UserType = result.UserType
	snapshot := *m.session
	m.mu.Unlock()

	if err := m.repo.Save(ctx, &snapshot); err != nil {
		m.log.Error(ctx, "failed to persist verified session", "error", err)
	}
	if m.cookies != nil {
		m.cookies.SetAuth(snapshot.AccessToken, snapshot.UserType)
	}

	m.notifyAuthChange(true)
	return nil
}
