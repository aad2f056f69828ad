package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GatherFlow/EventService/internal/domain"
)

// EventSearcher is the minimal interface needed for the search endpoint.
type EventSearcher interface {
	Search(ctx context.Context, rawQuery string) ([]domain.EventView, error)
}

// TagSuggester is the minimal interface needed for tag suggestions.
type TagSuggester interface {
	SuggestTags(ctx context.Context, rawQuery string) ([]domain.Tag, error)
}

// HandleSearchEvents returns an HTTP handler for fuzzy event search.
// The query mixes free text and #hashtag filters in one string.
func HandleSearchEvents(svc EventSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		views, err := svc.Search(r.Context(), r.URL.Query().Get("query"))
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

// HandleSuggestTags returns an HTTP handler completing the last hashtag
// of the query against stored tag names. A query without a hashtag gets
// an empty list, not an error.
func HandleSuggestTags(svc TagSuggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		tags, err := svc.SuggestTags(r.Context(), r.URL.Query().Get("query"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]tagResponse, 0, len(tags))
		for _, tag := range tags {
			resp = append(resp, tagResponse{ID: tag.ID, Name: tag.Name})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
