package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GatherFlow/EventService/internal/app"
	"github.com/GatherFlow/EventService/internal/clock"
	"github.com/GatherFlow/EventService/internal/storage/postgres"
	"github.com/GatherFlow/EventService/internal/testutil"
)

func TestEvents_HTTPIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	eventRepo := postgres.NewEventRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	eventSvc := app.NewEventService(eventRepo, clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	tagSvc := app.NewTagService(tagRepo)

	create := HandleCreateEvent(eventSvc, tagSvc)
	byID := HandleEventByID(eventSvc, tagSvc)

	reqBody := []byte(`{"title":"Jazz Night","description":"live jazz downtown","duration":120,"format":"offline","location":"Warehouse 9","tags":["Music","#jazz"]}`)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBuffer(reqBody))
	req.Header.Set("X-User-ID", "owner-1")
	rec := httptest.NewRecorder()
	create.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created eventViewResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected event id to be set")
	}
	if len(created.Tags) != 2 || created.Tags[0] != "#music" {
		t.Fatalf("expected normalized tags, got %v", created.Tags)
	}

	getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%d", created.ID), nil)
	getRec := httptest.NewRecorder()
	byID.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", getRec.Code)
	}

	patchBody := []byte(`{"title":"Jazz Night II","tags":["#jazz"]}`)
	patchReq := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/events/%d", created.ID), bytes.NewBuffer(patchBody))
	patchRec := httptest.NewRecorder()
	byID.ServeHTTP(patchRec, patchReq)

	if patchRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", patchRec.Code, patchRec.Body.String())
	}
	var patched eventViewResponse
	if err := json.NewDecoder(patchRec.Body).Decode(&patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if patched.Title != "Jazz Night II" {
		t.Fatalf("expected updated title, got %q", patched.Title)
	}
	if len(patched.Tags) != 1 || patched.Tags[0] != "#jazz" {
		t.Fatalf("expected replaced tags, got %v", patched.Tags)
	}

	likeReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/events/%d/like", created.ID), nil)
	likeReq.Header.Set("X-User-ID", "fan-1")
	likeRec := httptest.NewRecorder()
	byID.ServeHTTP(likeRec, likeReq)
	if likeRec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", likeRec.Code)
	}

	againRec := httptest.NewRecorder()
	againReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/events/%d/like", created.ID), nil)
	againReq.Header.Set("X-User-ID", "fan-1")
	byID.ServeHTTP(againRec, againReq)
	if againRec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on double like, got %d", againRec.Code)
	}

	delReq := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/events/%d", created.ID), nil)
	delRec := httptest.NewRecorder()
	byID.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", delRec.Code)
	}

	goneReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%d", created.ID), nil)
	goneRec := httptest.NewRecorder()
	byID.ServeHTTP(goneRec, goneReq)
	if goneRec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", goneRec.Code)
	}
}

func TestSearch_HTTPIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	eventRepo := postgres.NewEventRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	eventSvc := app.NewEventService(eventRepo, clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
	tagSvc := app.NewTagService(tagRepo)

	jazzID := testutil.InsertEvent(t, ctx, pool, "Jazz Night", "live jazz downtown")
	rockID := testutil.InsertEvent(t, ctx, pool, "Rock Fest", "loud guitars")
	if _, err := tagSvc.ReplaceTags(ctx, jazzID, []string{"#music", "#jazz"}); err != nil {
		t.Fatalf("tag jazz: %v", err)
	}
	if _, err := tagSvc.ReplaceTags(ctx, rockID, []string{"#music", "#rock"}); err != nil {
		t.Fatalf("tag rock: %v", err)
	}

	search := HandleSearchEvents(eventSvc)

	// A doubled-letter typo in the free text plus a tag filter still
	// finds the jazz event.
	req := httptest.NewRequest(http.MethodGet, "/events/search?query=jazzz+%23music", nil)
	rec := httptest.NewRecorder()
	search.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var results []eventViewResponse
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 || results[0].ID != jazzID {
		t.Fatalf("expected only the jazz event, got %+v", results)
	}

	suggest := HandleSuggestTags(eventSvc)
	sugReq := httptest.NewRequest(http.MethodGet, "/tags/suggest?query=%23roc", nil)
	sugRec := httptest.NewRecorder()
	suggest.ServeHTTP(sugRec, sugReq)

	if sugRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", sugRec.Code)
	}
	var suggestions []tagResponse
	if err := json.NewDecoder(sugRec.Body).Decode(&suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) == 0 || suggestions[0].Name != "#rock" {
		t.Fatalf("expected #rock suggested first, got %+v", suggestions)
	}
}
