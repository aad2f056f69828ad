package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GatherFlow/EventService/internal/app"
	"github.com/GatherFlow/EventService/internal/domain"
)

// EventService is the minimal interface needed for event endpoints.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, id int64) (domain.EventView, error)
	UpdateEvent(ctx context.Context, id int64, patch domain.EventPatch) error
	DeleteEvent(ctx context.Context, id int64) error
	ListMine(ctx context.Context, userID string) ([]domain.EventView, error)
	Like(ctx context.Context, eventID int64, userID string) error
	Unlike(ctx context.Context, eventID int64, userID string) error
}

// TagReplacer is the minimal interface needed to attach tags to an event.
type TagReplacer interface {
	ReplaceTags(ctx context.Context, eventID int64, rawTags []string) ([]int64, error)
}

// HandleCreateEvent returns an HTTP handler for creating events.
func HandleCreateEvent(svc EventService, tagSvc TagReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			UserID:       callerID(r),
			Title:        req.Title,
			Description:  req.Description,
			Duration:     req.Duration,
			Format:       domain.EventFormat(req.Format),
			MeetingLink:  req.MeetingLink,
			Location:     req.Location,
			StartingTime: req.StartingTime,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if len(req.Tags) > 0 {
			if _, err := tagSvc.ReplaceTags(r.Context(), event.ID, req.Tags); err != nil {
				writeServiceError(w, err)
				return
			}
		}

		view, err := svc.GetEvent(r.Context(), event.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toEventViewResponse(view))
	}
}

// HandleMyEvents returns an HTTP handler listing the caller's events.
func HandleMyEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		views, err := svc.ListMine(r.Context(), callerID(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]eventViewResponse, 0, len(views))
		for _, view := range views {
			resp = append(resp, toEventViewResponse(view))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleEventByID returns an HTTP handler for single-event operations:
// get, partial update, delete, like and unlike.
func HandleEventByID(svc EventService, tagSvc TagReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID, sub, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		id, err := parseID(rawID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			return
		}

		if sub == "like" {
			handleLike(w, r, svc, id)
			return
		}

		switch r.Method {
		case http.MethodGet:
			view, err := svc.GetEvent(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventViewResponse(view))
		case http.MethodPatch:
			handleUpdateEvent(w, r, svc, tagSvc, id)
		case http.MethodDelete:
			if err := svc.DeleteEvent(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleUpdateEvent(w http.ResponseWriter, r *http.Request, svc EventService, tagSvc TagReplacer, id int64) {
	var req updateEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	patch := domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
	}
	if req.Format != nil {
		format := domain.EventFormat(*req.Format)
		patch.Format = &format
	}
	if req.StartingTime != nil {
		t := time.Unix(*req.StartingTime, 0).UTC()
		patch.StartingTime = &t
	}
	if req.AnnouncedAt != nil {
		t := time.Unix(*req.AnnouncedAt, 0).UTC()
		patch.AnnouncedAt = &t
	}

	if patch.Empty() && len(req.Tags) == 0 {
		writeError(w, http.StatusBadRequest, codeEmptyPatch, domain.ErrEmptyPatch.Error())
		return
	}

	if !patch.Empty() {
		if err := svc.UpdateEvent(r.Context(), id, patch); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if len(req.Tags) > 0 {
		if _, err := tagSvc.ReplaceTags(r.Context(), id, req.Tags); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	view, err := svc.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toEventViewResponse(view))
}

func handleLike(w http.ResponseWriter, r *http.Request, svc EventService, eventID int64) {
	switch r.Method {
	case http.MethodPost:
		if err := svc.Like(r.Context(), eventID, callerID(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		if err := svc.Unlike(r.Context(), eventID, callerID(r)); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

type createEventRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Duration     int      `json:"duration"`
	Format       string   `json:"format"`
	MeetingLink  string   `json:"meeting_link,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartingTime *int64   `json:"starting_time,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

type updateEventRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Duration     *int     `json:"duration"`
	Format       *string  `json:"format"`
	MeetingLink  *string  `json:"meeting_link"`
	Location     *string  `json:"location"`
	StartingTime *int64   `json:"starting_time"`
	AnnouncedAt  *int64   `json:"announced_at"`
	Tags         []string `json:"tags"`
}

type eventViewResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Duration     int                   `json:"duration"`
	Format       string                `json:"format"`
	MeetingLink  string                `json:"meeting_link"`
	Location     string                `json:"location"`
	StartingTime *time.Time            `json:"starting_time,omitempty"`
	AnnouncedAt  *time.Time            `json:"announced_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	Tags         []string              `json:"tags"`
	Likes        int                   `json:"likes"`
	Tickets      []eventTicketResponse `json:"tickets"`
}

func toEventViewResponse(view domain.EventView) eventViewResponse {
	tags := view.Tags
	if tags == nil {
		tags = []string{}
	}
	tickets := make([]eventTicketResponse, 0, len(view.Tickets))
	for _, ticket := range view.Tickets {
		tickets = append(tickets, toEventTicketResponse(ticket))
	}
	return eventViewResponse{
		ID:           view.ID,
		Title:        view.Title,
		Description:  view.Description,
		Duration:     view.Duration,
		Format:       string(view.Format),
		MeetingLink:  view.MeetingLink,
		Location:     view.Location,
		StartingTime: view.StartingTime,
		AnnouncedAt:  view.AnnouncedAt,
		CreatedAt:    view.CreatedAt,
		Tags:         tags,
		Likes:        view.Likes,
		Tickets:      tickets,
	}
}

// callerID identifies the requesting user. Authentication lives at the
// gateway; this service trusts the forwarded header.
func callerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseEventPath(path string) (id, sub string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "events" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] != "like" {
			return "", "", false
		}
		return parts[1], parts[2], true
	}
	return parts[1], "", true
}
