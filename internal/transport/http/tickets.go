package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/GatherFlow/EventService/internal/app"
	"github.com/GatherFlow/EventService/internal/domain"
)

// TicketService is the minimal interface needed for ticket endpoints.
type TicketService interface {
	CreateEventTicket(ctx context.Context, in app.CreateEventTicketInput) (domain.EventTicket, error)
	GetEventTicket(ctx context.Context, id int64) (domain.EventTicket, error)
	ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error)
	UpdateEventTicket(ctx context.Context, id int64, patch domain.EventTicketPatch) error
	DeleteEventTicket(ctx context.Context, id int64) error
	Purchase(ctx context.Context, eventTicketID int64, userID string) (domain.Ticket, error)
	Refund(ctx context.Context, ticketID int64) error
}

// HandleEventTickets returns an HTTP handler for creating ticket types
// and listing them by event.
func HandleEventTickets(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			eventID, err := parseID(r.URL.Query().Get("event_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			tickets, err := svc.ListEventTickets(r.Context(), eventID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]eventTicketResponse, 0, len(tickets))
			for _, ticket := range tickets {
				resp = append(resp, toEventTicketResponse(ticket))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case http.MethodPost:
			var req createEventTicketRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			ticket, err := svc.CreateEventTicket(r.Context(), app.CreateEventTicketInput{
				EventID:     req.EventID,
				Title:       req.Title,
				Description: req.Description,
				Price:       req.Price,
				Amount:      req.Amount,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toEventTicketResponse(ticket))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleEventTicketByID returns an HTTP handler for single ticket-type
// operations: get, partial update and delete.
func HandleEventTicketByID(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID, ok := parseSingleIDPath(r.URL.Path, "event-tickets")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id, err := parseID(rawID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			return
		}

		switch r.Method {
		case http.MethodGet:
			ticket, err := svc.GetEventTicket(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventTicketResponse(ticket))
		case http.MethodPatch:
			var req updateEventTicketRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			patch := domain.EventTicketPatch{
				Title:       req.Title,
				Description: req.Description,
				Price:       req.Price,
			}
			if err := svc.UpdateEventTicket(r.Context(), id, patch); err != nil {
				writeServiceError(w, err)
				return
			}
			ticket, err := svc.GetEventTicket(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventTicketResponse(ticket))
		case http.MethodDelete:
			if err := svc.DeleteEventTicket(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandlePurchaseTicket returns an HTTP handler appending a sold ticket
// to the ledger. Stock catches up on the next reconcile cycle.
func HandlePurchaseTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req purchaseTicketRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventTicketID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		ticket, err := svc.Purchase(r.Context(), req.EventTicketID, callerID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ticketResponse{
			ID:            ticket.ID,
			EventTicketID: ticket.EventTicketID,
			UserID:        ticket.UserID,
			CreatedAt:     ticket.CreatedAt,
		})
	}
}

// HandleRefundTicket returns an HTTP handler deleting a sold ticket
// from the ledger.
func HandleRefundTicket(svc TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID, ok := parseSingleIDPath(r.URL.Path, "tickets")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id, err := parseID(rawID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			return
		}

		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if err := svc.Refund(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createEventTicketRequest struct {
	EventID     int64   `json:"event_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Amount      int     `json:"amount"`
}

type updateEventTicketRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

type eventTicketResponse struct {
	ID          int64   `json:"id"`
	EventID     int64   `json:"event_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Amount      int     `json:"amount"`
	Stock       int     `json:"stock"`
}

func toEventTicketResponse(ticket domain.EventTicket) eventTicketResponse {
	return eventTicketResponse{
		ID:          ticket.ID,
		EventID:     ticket.EventID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Price:       ticket.Price,
		Amount:      ticket.Amount,
		Stock:       ticket.Stock,
	}
}

type purchaseTicketRequest struct {
	EventTicketID int64 `json:"event_ticket_id"`
}

type ticketResponse struct {
	ID            int64     `json:"id"`
	EventTicketID int64     `json:"event_ticket_id"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func parseSingleIDPath(path, resource string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != resource || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
