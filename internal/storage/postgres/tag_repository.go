package postgres

import (
	"context"
	"fmt"

	"github.com/GatherFlow/EventService/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *TagRepository) FindTagsByName(ctx context.Context, names []string) ([]domain.Tag, error) {
	const query = `SELECT id, name FROM tags WHERE name = ANY($1)`
	rows, err := r.query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("find tags by name: %w", err)
	}
	defer rows.Close()

	var out []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tag)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tags: %w", rows.Err())
	}
	return out, nil
}

// CreateTag upserts by canonical name: a concurrent insert of the same
// name yields the existing row's id instead of aborting the transaction.
func (r *TagRepository) CreateTag(ctx context.Context, name string) (int64, error) {
	const stmt = `
INSERT INTO tags (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`
	var id int64
	if err := r.queryRow(ctx, stmt, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("create tag: %w", err)
	}
	return id, nil
}

func (r *TagRepository) DeleteEventTags(ctx context.Context, eventID int64) error {
	const stmt = `DELETE FROM event_tags WHERE event_id = $1`
	if _, err := r.exec(ctx, stmt, eventID); err != nil {
		return fmt.Errorf("delete event tags: %w", err)
	}
	return nil
}

func (r *TagRepository) CreateEventTag(ctx context.Context, eventID, tagID int64) (int64, error) {
	const stmt = `
INSERT INTO event_tags (event_id, tag_id)
VALUES ($1, $2)
RETURNING id`
	var id int64
	if err := r.queryRow(ctx, stmt, eventID, tagID).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create event tag: %w", err)
	}
	return id, nil
}

func (r *TagRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TagRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *TagRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
