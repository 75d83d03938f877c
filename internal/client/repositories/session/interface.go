// Package session persists the single session record backing the session
// manager across restarts.
package session

import (
	"context"

	"github.com/talentlink/talentlink-client/internal/client/models"
)

// Repository stores at most one session row. Load returns (nil, nil) when
// nothing is persisted.
type Repository interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	SaveAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
