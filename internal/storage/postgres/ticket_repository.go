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

// TicketRepository backs both the ticket service (ticket types and the
// sales ledger) and the stock reconciler.
type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *TicketRepository) CreateEventTicket(ctx context.Context, ticket domain.EventTicket) (int64, error) {
	const stmt = `
INSERT INTO event_tickets (event_id, title, description, price, amount, stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	var id int64
	err := r.queryRow(ctx, stmt,
		ticket.EventID,
		ticket.Title,
		ticket.Description,
		ticket.Price,
		ticket.Amount,
		ticket.Stock,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create event ticket: %w", err)
	}
	return id, nil
}

func (r *TicketRepository) GetEventTicket(ctx context.Context, id int64) (domain.EventTicket, error) {
	const query = `
SELECT id, event_id, title, description, price, amount, stock
FROM event_tickets
WHERE id = $1`
	var et domain.EventTicket
	err := r.queryRow(ctx, query, id).
		Scan(&et.ID, &et.EventID, &et.Title, &et.Description, &et.Price, &et.Amount, &et.Stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.EventTicket{}, domain.ErrEventTicketNotFound
		}
		return domain.EventTicket{}, fmt.Errorf("get event ticket: %w", err)
	}
	return et, nil
}

func (r *TicketRepository) ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error) {
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

func (r *TicketRepository) UpdateEventTicket(ctx context.Context, id int64, patch domain.EventTicketPatch) error {
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
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE event_tickets SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update event ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventTicketNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteEventTicket(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM event_tickets WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete event ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventTicketNotFound
	}
	return nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error) {
	const stmt = `
INSERT INTO tickets (event_ticket_id, user_id, created_at)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	if err := r.queryRow(ctx, stmt, ticket.EventTicketID, ticket.UserID, ticket.CreatedAt).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventTicketNotFound
		}
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	return id, nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM tickets WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) ListAllEventTickets(ctx context.Context) ([]domain.EventTicket, error) {
	const query = `
SELECT id, event_id, title, description, price, amount, stock
FROM event_tickets
ORDER BY id ASC`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all event tickets: %w", err)
	}
	defer rows.Close()
	return scanEventTickets(rows)
}

func (r *TicketRepository) CountSoldTickets(ctx context.Context, eventTicketID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE event_ticket_id = $1`
	var count int
	if err := r.queryRow(ctx, query, eventTicketID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sold tickets: %w", err)
	}
	return count, nil
}

// UpdateStock writes the derived stock value; amount is untouched.
func (r *TicketRepository) UpdateStock(ctx context.Context, eventTicketID int64, stock int) error {
	const stmt = `UPDATE event_tickets SET stock = $1 WHERE id = $2`
	tag, err := r.exec(ctx, stmt, stock, eventTicketID)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventTicketNotFound
	}
	return nil
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
