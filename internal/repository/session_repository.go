package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(db base.DB) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(db)}
}

const sessionColumns = `telegram_id, user_id, name, email, professor, token, expires_at,
		COALESCE(TO_CHAR(selected_date, 'YYYY-MM-DD'), ''), created_at, updated_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.TelegramID,
		&s.UserID,
		&s.Name,
		&s.Email,
		&s.Professor,
		&s.Token,
		&s.ExpiresAt,
		&s.SelectedDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert сохраняет сессию пользователя, заменяя предыдущую
func (r *SessionRepository) Upsert(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (telegram_id, user_id, name, email, professor, token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			professor = EXCLUDED.professor,
			token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING COALESCE(TO_CHAR(selected_date, 'YYYY-MM-DD'), ''), created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		s.TelegramID,
		s.UserID,
		s.Name,
		s.Email,
		s.Professor,
		s.Token,
		s.ExpiresAt,
	).Scan(&s.SelectedDate, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// GetByTelegramID получает сессию по Telegram ID; nil если сессии нет
func (r *SessionRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE telegram_id = $1`

	s, err := scanSession(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Сессия не найдена
		}
		return nil, fmt.Errorf("get session by telegram id: %w", err)
	}

	return s, nil
}

// SetSelectedDate запоминает выбранную дату пользователя
func (r *SessionRepository) SetSelectedDate(ctx context.Context, telegramID int64, date string) error {
	query := `
		UPDATE sessions
		SET selected_date = $2::date, updated_at = NOW()
		WHERE telegram_id = $1
	`

	if err := r.ExecOne(ctx, query, telegramID, date); err != nil {
		return fmt.Errorf("set selected date: %w", err)
	}
	return nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, telegramID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM sessions WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired удаляет сессии с истёкшим токеном и сессии старше ttl
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE (expires_at IS NOT NULL AND expires_at <= $1)
		   OR updated_at <= $2
	`

	removed, err := r.ExecAffected(ctx, query, now, now.Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return removed, nil
}
