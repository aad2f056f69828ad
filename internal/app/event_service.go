package app

import (
	"context"
	"strings"
	"time"

	"github.com/GatherFlow/EventService/internal/clock"
	"github.com/GatherFlow/EventService/internal/domain"
	"github.com/GatherFlow/EventService/internal/search"
	"github.com/GatherFlow/EventService/internal/tags"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) (int64, error)
	CreateMember(ctx context.Context, member domain.Member) (int64, error)
	GetEvent(ctx context.Context, id int64) (domain.Event, error)
	UpdateEvent(ctx context.Context, id int64, patch domain.EventPatch) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEventsByOwner(ctx context.Context, userID string) ([]domain.Event, error)
	SearchEvents(ctx context.Context, freeText string, tagFilters []string) ([]domain.Event, error)
	SearchTags(ctx context.Context, filter string) ([]domain.Tag, error)
	ListEventTags(ctx context.Context, eventID int64) ([]domain.Tag, error)
	ListEventTickets(ctx context.Context, eventID int64) ([]domain.EventTicket, error)
	CountLikes(ctx context.Context, eventID int64) (int, error)
	CreateLike(ctx context.Context, like domain.Like) (int64, error)
	DeleteLike(ctx context.Context, eventID int64, userID string) error
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	UserID       string
	Title        string
	Description  string
	Duration     int
	Format       domain.EventFormat
	MeetingLink  string
	Location     string
	StartingTime *int64
}

// CreateEvent stores a new event and its owner membership in one
// transaction.
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return domain.Event{}, domain.ErrUserIDRequired
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Event{}, domain.ErrTitleRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Event{}, domain.ErrDescriptionRequired
	}
	if in.Duration <= 0 {
		return domain.Event{}, domain.ErrInvalidDuration
	}
	if in.Format != domain.EventFormatOnline && in.Format != domain.EventFormatOffline {
		return domain.Event{}, domain.ErrInvalidFormat
	}

	event := domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Format:      in.Format,
		MeetingLink: in.MeetingLink,
		Location:    in.Location,
		CreatedAt:   s.clock.Now(),
	}
	if in.StartingTime != nil {
		t := unixTime(*in.StartingTime)
		event.StartingTime = &t
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		id, err := s.repo.CreateEvent(txCtx, event)
		if err != nil {
			return err
		}
		event.ID = id

		_, err = s.repo.CreateMember(txCtx, domain.Member{
			EventID: id,
			UserID:  in.UserID,
			Role:    domain.MemberRoleOwner,
		})
		return err
	})
	if err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// GetEvent assembles the full read model: event, tag names, ticket
// types and like count.
func (s *EventService) GetEvent(ctx context.Context, id int64) (domain.EventView, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.EventView{}, err
	}
	return s.buildView(ctx, event)
}

func (s *EventService) UpdateEvent(ctx context.Context, id int64, patch domain.EventPatch) error {
	if patch.Empty() {
		return domain.ErrEmptyPatch
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.ErrTitleRequired
	}
	if patch.Duration != nil && *patch.Duration <= 0 {
		return domain.ErrInvalidDuration
	}
	if patch.Format != nil && *patch.Format != domain.EventFormatOnline && *patch.Format != domain.EventFormatOffline {
		return domain.ErrInvalidFormat
	}
	return s.repo.UpdateEvent(ctx, id, patch)
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	return s.repo.DeleteEvent(ctx, id)
}

// ListMine returns the view of every event the user owns.
func (s *EventService) ListMine(ctx context.Context, userID string) ([]domain.EventView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserIDRequired
	}
	events, err := s.repo.ListEventsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, events)
}

// Search parses the raw query into free text and hashtag filters and
// matches both fuzzily. Free text matches title or description; every
// filter must match one of the event's tags. Filters are canonicalized
// at match time, so their case in the query does not matter.
func (s *EventService) Search(ctx context.Context, rawQuery string) ([]domain.EventView, error) {
	query := search.Parse(rawQuery)
	events, err := s.repo.SearchEvents(ctx, query.FreeText, tags.NormalizeAll(query.Filters))
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, events)
}

// SuggestTags completes the last hashtag of the raw query against
// stored tag names. A query with no hashtag yields no suggestions.
func (s *EventService) SuggestTags(ctx context.Context, rawQuery string) ([]domain.Tag, error) {
	filter := search.LastFilter(rawQuery)
	if filter == "" {
		return []domain.Tag{}, nil
	}
	return s.repo.SearchTags(ctx, tags.Normalize(filter))
}

// Like records that a user likes an event; liking twice is rejected.
func (s *EventService) Like(ctx context.Context, eventID int64, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUserIDRequired
	}
	_, err := s.repo.CreateLike(ctx, domain.Like{EventID: eventID, UserID: userID})
	return err
}

func (s *EventService) Unlike(ctx context.Context, eventID int64, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUserIDRequired
	}
	return s.repo.DeleteLike(ctx, eventID, userID)
}

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func (s *EventService) buildViews(ctx context.Context, events []domain.Event) ([]domain.EventView, error) {
	views := make([]domain.EventView, 0, len(events))
	for _, event := range events {
		view, err := s.buildView(ctx, event)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *EventService) buildView(ctx context.Context, event domain.Event) (domain.EventView, error) {
	eventTags, err := s.repo.ListEventTags(ctx, event.ID)
	if err != nil {
		return domain.EventView{}, err
	}
	tickets, err := s.repo.ListEventTickets(ctx, event.ID)
	if err != nil {
		return domain.EventView{}, err
	}
	likes, err := s.repo.CountLikes(ctx, event.ID)
	if err != nil {
		return domain.EventView{}, err
	}

	names := make([]string, 0, len(eventTags))
	for _, tag := range eventTags {
		names = append(names, tag.Name)
	}
	return domain.EventView{
		Event:   event,
		Tags:    names,
		Likes:   likes,
		Tickets: tickets,
	}, nil
}
