package app

import (
	"context"

	"github.com/GatherFlow/EventService/internal/domain"
)

type StockRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListAllEventTickets(ctx context.Context) ([]domain.EventTicket, error)
	CountSoldTickets(ctx context.Context, eventTicketID int64) (int, error)
	UpdateStock(ctx context.Context, eventTicketID int64, stock int) error
}

// StockService recomputes the derived stock of every ticket type from
// the sales ledger.
type StockService struct {
	repo StockRepository
}

func NewStockService(repo StockRepository) *StockService {
	return &StockService{repo: repo}
}

// Reconcile sets stock = amount - sold count for every ticket type and
// commits the whole sweep as one batch. The result is correct as of the
// counts read during this cycle; sales landing mid-cycle are folded in
// by the next one. Amount is never written.
func (s *StockService) Reconcile(ctx context.Context) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventTickets, err := s.repo.ListAllEventTickets(txCtx)
		if err != nil {
			return err
		}
		for _, et := range eventTickets {
			sold, err := s.repo.CountSoldTickets(txCtx, et.ID)
			if err != nil {
				return err
			}
			stock := et.Amount - sold
			if stock == et.Stock {
				continue
			}
			if err := s.repo.UpdateStock(txCtx, et.ID, stock); err != nil {
				return err
			}
		}
		return nil
	})
}
