package app

import (
	"context"

	"github.com/GatherFlow/EventService/internal/domain"
	"github.com/GatherFlow/EventService/internal/tags"
)

type TagRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindTagsByName(ctx context.Context, names []string) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (int64, error)
	DeleteEventTags(ctx context.Context, eventID int64) error
	CreateEventTag(ctx context.Context, eventID, tagID int64) (int64, error)
}

type TagService struct {
	repo TagRepository
}

func NewTagService(repo TagRepository) *TagService {
	return &TagService{repo: repo}
}

// ReplaceTags swaps the event's tag set for the canonical form of
// rawTags and returns the new association ids. Empty input leaves the
// existing associations untouched. Tags are shared rows looked up by
// canonical name; missing ones are created first so duplicate names in
// one call resolve to a single tag. The delete of the old set and the
// insert of the new one commit as a single transaction, so readers
// never observe a half-replaced event. Duplicate input names produce
// duplicate association rows on purpose.
func (s *TagService) ReplaceTags(ctx context.Context, eventID int64, rawTags []string) ([]int64, error) {
	names := tags.NormalizeAll(rawTags)
	if len(names) == 0 {
		return nil, nil
	}

	var created []int64
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		unique := uniqueStrings(names)

		existing, err := s.repo.FindTagsByName(txCtx, unique)
		if err != nil {
			return err
		}
		idByName := make(map[string]int64, len(unique))
		for _, tag := range existing {
			idByName[tag.Name] = tag.ID
		}

		for _, name := range unique {
			if _, ok := idByName[name]; ok {
				continue
			}
			id, err := s.repo.CreateTag(txCtx, name)
			if err != nil {
				return err
			}
			idByName[name] = id
		}

		if err := s.repo.DeleteEventTags(txCtx, eventID); err != nil {
			return err
		}

		created = created[:0]
		for _, name := range names {
			id, err := s.repo.CreateEventTag(txCtx, eventID, idByName[name])
			if err != nil {
				return err
			}
			created = append(created, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
