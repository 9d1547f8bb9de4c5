package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashboard/board-service/internal/domain"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, username, mail, password_hash, is_email_visible`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Mail, &u.PasswordHash, &u.IsEmailVisible)
	return u, err
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStorage(err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStorage(err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, domain.ErrStorage(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.ErrStorage(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage(err)
	}
	return out, nil
}

func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, mail, password_hash, is_email_visible)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.Mail, u.PasswordHash, u.IsEmailVisible)
	if err != nil {
		if code, constraint := pgUniqueViolation(err); code {
			switch constraint {
			case "users_username_key":
				return domain.User{}, domain.ErrUsernameTaken()
			case "users_mail_key":
				return domain.User{}, domain.ErrMailTaken()
			}
		}
		return domain.User{}, domain.ErrStorage(err)
	}
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, u domain.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET mail = $2, password_hash = $3, is_email_visible = $4
		WHERE id = $1
	`, u.ID, u.Mail, u.PasswordHash, u.IsEmailVisible)
	if err != nil {
		if code, constraint := pgUniqueViolation(err); code && constraint == "users_mail_key" {
			return domain.ErrMailTaken()
		}
		return domain.ErrStorage(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return domain.ErrStorage(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func pgUniqueViolation(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true, pgErr.ConstraintName
	}
	return false, ""
}
