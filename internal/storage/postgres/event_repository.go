package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/GatherFlow/EventService/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, title, description, duration, format, meeting_link, location, starting_time, announced_at, created_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (title, description, duration, format, meeting_link, location, starting_time, announced_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	var id int64
	err := r.queryRow(ctx, stmt,
		event.Title,
		event.Description,
		event.Duration,
		event.Format,
		event.MeetingLink,
		event.Location,
		event.StartingTime,
		event.AnnouncedAt,
		event.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) CreateMember(ctx context.Context, member domain.Member) (int64, error) {
	const stmt = `
INSERT INTO members (event_id, user_id, role)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	if err := r.queryRow(ctx, stmt, member.EventID, member.UserID, member.Role).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create member: %w", err)
	}
	return id, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent applies the non-nil patch fields. The statement is built
// field-by-field from the explicit patch struct.
func (r *EventRepository) UpdateEvent(ctx context.Context, id int64, patch domain.EventPatch) error {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Duration != nil {
		add("duration", *patch.Duration)
	}
	if patch.Format != nil {
		add("format", *patch.Format)
	}
	if patch.MeetingLink != nil {
		add("meeting_link", *patch.MeetingLink)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.StartingTime != nil {
		add("starting_time", *patch.StartingTime)
	}
	if patch.AnnouncedAt != nil {
		add("announced_at", *patch.AnnouncedAt)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM events WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListEventsByOwner(ctx context.Context, userID string) ([]domain.Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM events
WHERE id IN (SELECT event_id FROM members WHERE user_id = $1 AND role = 'owner')
ORDER BY created_at ASC`
	return r.queryEvents(ctx, query, userID)
}

// SearchEvents fuzzy-matches freeText against title and description via
// pg_trgm and requires every tag filter to trigram-match one of the
// event's tags. An empty freeText matches every event, so a pure tag
// query still returns results. Filters use EXISTS, so duplicate tag
// associations cannot multiply result rows.
func (r *EventRepository) SearchEvents(ctx context.Context, freeText string, tagFilters []string) ([]domain.Event, error) {
	var b strings.Builder
	b.WriteString(`SELECT DISTINCT e.id, e.title, e.description, e.duration, e.format, e.meeting_link, e.location, e.starting_time, e.announced_at, e.created_at
FROM events e
WHERE ($1 = '' OR lower(e.title) % lower($1) OR lower(e.description) % lower($1))`)

	args := []any{freeText}
	for _, filter := range tagFilters {
		args = append(args, filter)
		fmt.Fprintf(&b, `
AND EXISTS (
	SELECT 1 FROM event_tags et
	JOIN tags t ON t.id = et.tag_id
	WHERE et.event_id = e.id AND t.name %% $%d
)`, len(args))
	}
	b.WriteString("\nORDER BY e.id ASC")

	return r.queryEvents(ctx, b.String(), args...)
}

// SearchTags fuzzy-matches one canonical filter against tag names, most
// similar first.
func (r *EventRepository) SearchTags(ctx context.Context, filter string) ([]domain.Tag, error) {
	const query = `
SELECT id, name
FROM tags
WHERE name % $1
ORDER BY similarity(name, $1) DESC, id ASC
LIMIT 20`
	rows, err := r.query(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *EventRepository) ListEventTags(ctx context.Context, eventID int64) ([]domain.Tag, error) {
	const query = `
SELECT t.id, t.name
FROM event_tags et
JOIN tags t ON t.id = et.tag_id
WHERE et.event_id = $1
ORDER BY et.id ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event tags: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *EventRepository) ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error) {
	const query = `
SELECT id, event_id, title, description, price, amount, stock
FROM event_tickets
WHERE event_id = $1
ORDER BY id ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event tickets: %w", err)
	}
	defer rows.Close()
	return scanEventTickets(rows)
}

func (r *EventRepository) CountLikes(ctx context.Context, eventID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM likes WHERE event_id = $1`
	var count int
	if err := r.queryRow(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *EventRepository) CreateLike(ctx context.Context, like domain.Like) (int64, error) {
	const stmt = `
INSERT INTO likes (event_id, user_id)
VALUES ($1, $2)
RETURNING id`
	var id int64
	if err := r.queryRow(ctx, stmt, like.EventID, like.UserID).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrAlreadyLiked
		}
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create like: %w", err)
	}
	return id, nil
}

func (r *EventRepository) DeleteLike(ctx context.Context, eventID int64, userID string) error {
	const stmt = `DELETE FROM likes WHERE event_id = $1 AND user_id = $2`
	tag, err := r.exec(ctx, stmt, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLikeNotFound
	}
	return nil
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Duration,
		&event.Format,
		&event.MeetingLink,
		&event.Location,
		&event.StartingTime,
		&event.AnnouncedAt,
		&event.CreatedAt,
	)
	return event, err
}

func scanTags(rows pgx.Rows) ([]domain.Tag, error) {
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

func scanEventTickets(rows pgx.Rows) ([]domain.EventTicket, error) {
	var out []domain.EventTicket
	for rows.Next() {
		var et domain.EventTicket
		if err := rows.Scan(&et.ID, &et.EventID, &et.Title, &et.Description, &et.Price, &et.Amount, &et.Stock); err != nil {
			return nil, fmt.Errorf("scan event ticket: %w", err)
		}
		out = append(out, et)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate event tickets: %w", rows.Err())
	}
	return out, nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
