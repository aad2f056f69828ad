package app

import (
	"context"
	"testing"
	"time"

	"github.com/GatherFlow/EventService/internal/clock"
	"github.com/GatherFlow/EventService/internal/domain"
	"github.com/GatherFlow/EventService/internal/search"
)

func TestEventService_CreateEvent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	valid := CreateEventInput{
		UserID:      "user-1",
		Title:       "Jazz Night",
		Description: "An evening of live jazz",
		Duration:    120,
		Format:      domain.EventFormatOffline,
		Location:    "Downtown club",
	}

	t.Run("creates event with owner member", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, clock.NewFixed(now))

		event, err := svc.CreateEvent(context.Background(), valid)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID == 0 {
			t.Fatalf("expected event id to be set")
		}
		if event.CreatedAt != now {
			t.Fatalf("expected created_at %v, got %v", now, event.CreatedAt)
		}
		members := repo.membersFor(event.ID)
		if len(members) != 1 || members[0].Role != domain.MemberRoleOwner || members[0].UserID != "user-1" {
			t.Fatalf("expected a single owner member, got %+v", members)
		}
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name    string
			mutate  func(in *CreateEventInput)
			wantErr error
		}{
			{"missing user", func(in *CreateEventInput) { in.UserID = " " }, domain.ErrUserIDRequired},
			{"missing title", func(in *CreateEventInput) { in.Title = "" }, domain.ErrTitleRequired},
			{"missing description", func(in *CreateEventInput) { in.Description = "" }, domain.ErrDescriptionRequired},
			{"bad duration", func(in *CreateEventInput) { in.Duration = 0 }, domain.ErrInvalidDuration},
			{"bad format", func(in *CreateEventInput) { in.Format = "hybrid" }, domain.ErrInvalidFormat},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := newFakeEventRepo()
				svc := NewEventService(repo, clock.NewFixed(now))

				in := valid
				tc.mutate(&in)
				if _, err := svc.CreateEvent(context.Background(), in); err != tc.wantErr {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			})
		}
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	id := repo.addEvent(domain.Event{Title: "Old", Description: "old"})

	if err := svc.UpdateEvent(context.Background(), id, domain.EventPatch{}); err != domain.ErrEmptyPatch {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}

	title := "New title"
	if err := svc.UpdateEvent(context.Background(), id, domain.EventPatch{Title: &title}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.events[id].Title != "New title" {
		t.Fatalf("patch not applied: %+v", repo.events[id])
	}
	if repo.events[id].Description != "old" {
		t.Fatalf("untouched field changed: %+v", repo.events[id])
	}

	empty := ""
	if err := svc.UpdateEvent(context.Background(), id, domain.EventPatch{Title: &empty}); err != domain.ErrTitleRequired {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestEventService_Search(t *testing.T) {
	t.Parallel()

	setup := func() (*EventService, *fakeEventRepo) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, clock.NewSystem())

		jazz := repo.addEvent(domain.Event{Title: "Jazz Night", Description: "Live jazz downtown"})
		repo.tagEvent(jazz, "#music", "#live")
		rock := repo.addEvent(domain.Event{Title: "Rock Festival", Description: "Open air rock"})
		repo.tagEvent(rock, "#music")
		repo.addEvent(domain.Event{Title: "Jazz Brunch", Description: "Jazz and food"})

		return svc, repo
	}

	t.Run("free text matches title or description", func(t *testing.T) {
		svc, _ := setup()
		views, err := svc.Search(context.Background(), "jazz")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 events, got %d", len(views))
		}
	})

	t.Run("pure tag query matches all events with the tag", func(t *testing.T) {
		svc, _ := setup()
		views, err := svc.Search(context.Background(), "#music")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 tagged events, got %d", len(views))
		}
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		svc, _ := setup()
		views, err := svc.Search(context.Background(), "#music #live")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 1 || views[0].Title != "Jazz Night" {
			t.Fatalf("expected only Jazz Night, got %+v", views)
		}
	})

	t.Run("untagged events never match tag filters", func(t *testing.T) {
		svc, _ := setup()
		views, err := svc.Search(context.Background(), "jazz #music")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, v := range views {
			if v.Title == "Jazz Brunch" {
				t.Fatalf("untagged event matched a tag filter")
			}
		}
	})

	t.Run("filter case is normalized at match time", func(t *testing.T) {
		svc, _ := setup()
		views, err := svc.Search(context.Background(), "#MUSIC")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 events, got %d", len(views))
		}
	})

	t.Run("search result carries the view model", func(t *testing.T) {
		svc, repo := setup()
		repo.likes[1] = 3
		views, err := svc.Search(context.Background(), "#live")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("expected 1 event, got %d", len(views))
		}
		if len(views[0].Tags) != 2 || views[0].Likes != 3 {
			t.Fatalf("unexpected view: %+v", views[0])
		}
	})
}

func TestEventService_SuggestTags(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	id := repo.addEvent(domain.Event{Title: "Jazz"})
	repo.tagEvent(id, "#music", "#musical")

	t.Run("no hashtag yields empty result, not an error", func(t *testing.T) {
		suggestions, err := svc.SuggestTags(context.Background(), "jazz night")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if suggestions == nil || len(suggestions) != 0 {
			t.Fatalf("expected empty non-nil result, got %v", suggestions)
		}
	})

	t.Run("last hashtag is matched against tag names", func(t *testing.T) {
		suggestions, err := svc.SuggestTags(context.Background(), "jazz #live #musi")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(suggestions) == 0 {
			t.Fatalf("expected suggestions for #musi")
		}
		for _, s := range suggestions {
			if s.Name != "#music" && s.Name != "#musical" {
				t.Fatalf("unexpected suggestion %q", s.Name)
			}
		}
	})
}

func TestEventService_Likes(t *testing.T) {
	t.Parallel()

	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	id := repo.addEvent(domain.Event{Title: "Jazz"})

	if err := svc.Like(context.Background(), id, ""); err != domain.ErrUserIDRequired {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if err := svc.Like(context.Background(), id, "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	view, err := svc.GetEvent(context.Background(), id)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Likes != 1 {
		t.Fatalf("expected 1 like, got %d", view.Likes)
	}

	if err := svc.Unlike(context.Background(), id, "user-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Unlike(context.Background(), id, "user-1"); err != domain.ErrLikeNotFound {
		t.Fatalf("expected ErrLikeNotFound, got %v", err)
	}
}

// fakeEventRepo backs EventService tests; search matching mirrors the
// SQL path through the in-process trigram matcher.
type fakeEventRepo struct {
	events  map[int64]domain.Event
	members []domain.Member
	tags    map[int64][]domain.Tag
	tickets map[int64][]domain.EventTicket
	likes   map[int64]int
	matcher search.Matcher
	nextID  int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  make(map[int64]domain.Event),
		tags:    make(map[int64][]domain.Tag),
		tickets: make(map[int64][]domain.EventTicket),
		likes:   make(map[int64]int),
		matcher: search.NewTrigramMatcher(),
	}
}

func (f *fakeEventRepo) addEvent(event domain.Event) int64 {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event.ID
}

func (f *fakeEventRepo) tagEvent(eventID int64, names ...string) {
	for _, name := range names {
		f.nextID++
		f.tags[eventID] = append(f.tags[eventID], domain.Tag{ID: f.nextID, Name: name})
	}
}

func (f *fakeEventRepo) membersFor(eventID int64) []domain.Member {
	var out []domain.Member
	for _, m := range f.members {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeEventRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event domain.Event) (int64, error) {
	return f.addEvent(event), nil
}

func (f *fakeEventRepo) CreateMember(_ context.Context, member domain.Member) (int64, error) {
	f.nextID++
	member.ID = f.nextID
	f.members = append(f.members, member)
	return member.ID, nil
}

func (f *fakeEventRepo) GetEvent(_ context.Context, id int64) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) UpdateEvent(_ context.Context, id int64, patch domain.EventPatch) error {
	event, ok := f.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Duration != nil {
		event.Duration = *patch.Duration
	}
	if patch.Format != nil {
		event.Format = *patch.Format
	}
	if patch.MeetingLink != nil {
		event.MeetingLink = *patch.MeetingLink
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.StartingTime != nil {
		event.StartingTime = patch.StartingTime
	}
	if patch.AnnouncedAt != nil {
		event.AnnouncedAt = patch.AnnouncedAt
	}
	f.events[id] = event
	return nil
}

func (f *fakeEventRepo) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.events, id)
	delete(f.tags, id)
	return nil
}

func (f *fakeEventRepo) ListEventsByOwner(_ context.Context, userID string) ([]domain.Event, error) {
	var out []domain.Event
	for _, m := range f.members {
		if m.UserID == userID && m.Role == domain.MemberRoleOwner {
			if event, ok := f.events[m.EventID]; ok {
				out = append(out, event)
			}
		}
	}
	return out, nil
}

func (f *fakeEventRepo) SearchEvents(_ context.Context, freeText string, tagFilters []string) ([]domain.Event, error) {
	var out []domain.Event
	for id := int64(1); id <= f.nextID; id++ {
		event, ok := f.events[id]
		if !ok {
			continue
		}
		if !f.matcher.Match(event.Title, freeText) && !f.matcher.Match(event.Description, freeText) {
			continue
		}
		if !f.matchesAllFilters(id, tagFilters) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (f *fakeEventRepo) matchesAllFilters(eventID int64, filters []string) bool {
	for _, filter := range filters {
		matched := false
		for _, tag := range f.tags[eventID] {
			if f.matcher.Match(tag.Name, filter) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (f *fakeEventRepo) SearchTags(_ context.Context, filter string) ([]domain.Tag, error) {
	seen := make(map[int64]struct{})
	var out []domain.Tag
	for _, eventTags := range f.tags {
		for _, tag := range eventTags {
			if _, ok := seen[tag.ID]; ok {
				continue
			}
			if f.matcher.Match(tag.Name, filter) {
				seen[tag.ID] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListEventTags(_ context.Context, eventID int64) ([]domain.Tag, error) {
	return f.tags[eventID], nil
}

func (f *fakeEventRepo) ListEventTickets(_ context.Context, eventID int64) ([]domain.EventTicket, error) {
	return f.tickets[eventID], nil
}

func (f *fakeEventRepo) CountLikes(_ context.Context, eventID int64) (int, error) {
	return f.likes[eventID], nil
}

func (f *fakeEventRepo) CreateLike(_ context.Context, like domain.Like) (int64, error) {
	if _, ok := f.events[like.EventID]; !ok {
		return 0, domain.ErrEventNotFound
	}
	f.likes[like.EventID]++
	f.nextID++
	return f.nextID, nil
}

func (f *fakeEventRepo) DeleteLike(_ context.Context, eventID int64, _ string) error {
	if f.likes[eventID] == 0 {
		return domain.ErrLikeNotFound
	}
	f.likes[eventID]--
	return nil
}
