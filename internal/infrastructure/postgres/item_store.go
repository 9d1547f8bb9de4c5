package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flashboard/board-service/internal/domain"
)

// ItemStore persists items with an optimistic-lock version column. Update is
// the compare-and-swap the service layer retries on: the UPDATE is guarded by
// WHERE version = $expected, so a lost race affects zero rows and surfaces as
// domain.ErrVersionConflict instead of silently overwriting.
type ItemStore struct {
	pool *pgxpool.Pool
}

func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

const itemColumns = `
	id, title, description, location, add_info, category,
	birthdate, expirydate, owner_id,
	votes, vote_count, members, member_limit, allow_overload,
	version, created_at, updated_at`

func scanItem(row pgx.Row) (domain.Item, error) {
	var it domain.Item
	var votes, members []byte
	err := row.Scan(
		&it.ID, &it.Title, &it.Description, &it.Location, &it.AddInfo, &it.Category,
		&it.BirthDate, &it.ExpiryDate, &it.OwnerID,
		&votes, &it.VoteCount, &members, &it.MemberLimit, &it.AllowOverload,
		&it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return domain.Item{}, err
	}
	if len(votes) > 0 {
		if err := json.Unmarshal(votes, &it.Votes); err != nil {
			return domain.Item{}, err
		}
	}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &it.Members); err != nil {
			return domain.Item{}, err
		}
	}
	return it, nil
}

func encode(v any) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

func (s *ItemStore) Get(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrItemNotFound()
		}
		return domain.Item{}, domain.ErrStorage(err)
	}
	return it, nil
}

func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY vote_count DESC, created_at DESC`)
	if err != nil {
		return nil, domain.ErrStorage(err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *ItemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE owner_id = $1 ORDER BY vote_count DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, domain.ErrStorage(err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]domain.Item, error) {
	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, domain.ErrStorage(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage(err)
	}
	return out, nil
}

func (s *ItemStore) Create(ctx context.Context, it domain.Item) error {
	votes, err := encode(it.Votes)
	if err != nil {
		return domain.ErrInternal(err)
	}
	members, err := encode(it.Members)
	if err != nil {
		return domain.ErrInternal(err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO items (
			id, title, description, location, add_info, category,
			birthdate, expirydate, owner_id,
			votes, vote_count, members, member_limit, allow_overload,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,1,$15,$15)
	`, it.ID, it.Title, it.Description, it.Location, it.AddInfo, it.Category,
		it.BirthDate, it.ExpiryDate, it.OwnerID,
		votes, it.VoteCount, members, it.MemberLimit, it.AllowOverload,
		time.Now().UTC())
	if err != nil {
		return domain.ErrStorage(err)
	}
	return nil
}

func (s *ItemStore) Update(ctx context.Context, it domain.Item) error {
	votes, err := encode(it.Votes)
	if err != nil {
		return domain.ErrInternal(err)
	}
	members, err := encode(it.Members)
	if err != nil {
		return domain.ErrInternal(err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE items SET
			title = $2, description = $3, location = $4, add_info = $5,
			birthdate = $6, expirydate = $7,
			votes = $8, vote_count = $9, members = $10,
			member_limit = $11, allow_overload = $12,
			version = version + 1, updated_at = $13
		WHERE id = $1 AND version = $14
	`, it.ID, it.Title, it.Description, it.Location, it.AddInfo,
		it.BirthDate, it.ExpiryDate,
		votes, it.VoteCount, members,
		it.MemberLimit, it.AllowOverload,
		time.Now().UTC(), it.Version)
	if err != nil {
		return domain.ErrStorage(err)
	}
	if tag.RowsAffected() == 0 {
		// Either the item vanished or a concurrent writer bumped the version.
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, it.ID).Scan(&exists); err != nil {
			return domain.ErrStorage(err)
		}
		if !exists {
			return domain.ErrItemNotFound()
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return domain.ErrStorage(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound()
	}
	return nil
}
