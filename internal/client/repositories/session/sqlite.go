package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/common"
	"github.com/talentlink/talentlink-client/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.Session, error) {
	var (
		userJSON     []byte
		userType     string
		accessToken  string
		refreshToken string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_json, user_type, access_token, refresh_token FROM session WHERE id = 1`,
	).Scan(&userJSON, &userType, &accessToken, &refreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	user.Raw = append([]byte(nil), userJSON...)

	return &models.Session{
		User:         &user,
		UserType:     common.UserType(userType),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *models.Session) error {
	userJSON := s.User.Raw
	if len(userJSON) == 0 {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		userJSON = b
	}

	// Replace, not upsert: the old row must never survive a partial write.
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session (id, user_json, user_type, access_token, refresh_token)
			VALUES (1, ?, ?, ?, ?)
		`, userJSON, string(s.UserType), s.AccessToken, s.RefreshToken)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveAccessToken(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE session SET access_token = ? WHERE id = 1`, token)
	if err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to save access token: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session`)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
