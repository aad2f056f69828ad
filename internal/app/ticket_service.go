package app

import (
	"context"
	"strings"

	"github.com/GatherFlow/EventService/internal/clock"
	"github.com/GatherFlow/EventService/internal/domain"
)

type TicketRepository interface {
	CreateEventTicket(ctx context.Context, ticket domain.EventTicket) (int64, error)
	GetEventTicket(ctx context.Context, id int64) (domain.EventTicket, error)
	ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error)
	UpdateEventTicket(ctx context.Context, id int64, patch domain.EventTicketPatch) error
	DeleteEventTicket(ctx context.Context, id int64) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error)
	DeleteTicket(ctx context.Context, id int64) error
}

type TicketService struct {
	repo  TicketRepository
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventTicketInput struct {
	EventID     int64
	Title       string
	Description string
	Price       float64
	Amount      int
}

// CreateEventTicket adds a ticket type to an event. Stock starts equal
// to the offered amount; the reconciler owns it afterwards.
func (s *TicketService) CreateEventTicket(ctx context.Context, in CreateEventTicketInput) (domain.EventTicket, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.EventTicket{}, domain.ErrTitleRequired
	}
	if in.Price < 0 {
		return domain.EventTicket{}, domain.ErrInvalidPrice
	}
	if in.Amount <= 0 {
		return domain.EventTicket{}, domain.ErrInvalidAmount
	}

	ticket := domain.EventTicket{
		EventID:     in.EventID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Amount:      in.Amount,
		Stock:       in.Amount,
	}
	id, err := s.repo.CreateEventTicket(ctx, ticket)
	if err != nil {
		return domain.EventTicket{}, err
	}
	ticket.ID = id
	return ticket, nil
}

func (s *TicketService) GetEventTicket(ctx context.Context, id int64) (domain.EventTicket, error) {
	return s.repo.GetEventTicket(ctx, id)
}

func (s *TicketService) ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error) {
	return s.repo.ListEventTickets(ctx, eventID)
}

func (s *TicketService) UpdateEventTicket(ctx context.Context, id int64, patch domain.EventTicketPatch) error {
	if patch.Empty() {
		return domain.ErrEmptyPatch
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.ErrTitleRequired
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.ErrInvalidPrice
	}
	return s.repo.UpdateEventTicket(ctx, id, patch)
}

func (s *TicketService) DeleteEventTicket(ctx context.Context, id int64) error {
	return s.repo.DeleteEventTicket(ctx, id)
}

// Purchase appends one sold unit to the ledger. Stock is not touched
// here; the reconciler folds the sale in on its next cycle.
func (s *TicketService) Purchase(ctx context.Context, eventTicketID int64, userID string) (domain.Ticket, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Ticket{}, domain.ErrUserIDRequired
	}
	ticket := domain.Ticket{
		EventTicketID: eventTicketID,
		UserID:        userID,
		CreatedAt:     s.clock.Now(),
	}
	id, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.ID = id
	return ticket, nil
}

// Refund removes a sold unit from the ledger.
func (s *TicketService) Refund(ctx context.Context, ticketID int64) error {
	return s.repo.DeleteTicket(ctx, ticketID)
}
