package services

import (
	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// TimelineService reads the home, local, and global timelines. Pagination
// is by id (the last seen note's id as a cursor), not offset, per the
// sortable-id invariant — offset pagination would shift under concurrent
// inserts in a way cursor pagination doesn't.
type TimelineService struct {
	store Store
}

func NewTimelineService(store Store) *TimelineService {
	return &TimelineService{store: store}
}

// Local returns every locally-authored note, newest first, paginated by
// beforeId (uuid.Nil for the first page).
func (s *TimelineService) Local(beforeId uuid.UUID, limit int) ([]domain.Note, error) {
	err, notes := s.store.ReadTimelinePage(beforeId, limit)
	if err != nil {
		return nil, err
	}
	return *notes, nil
}

// Global returns the same page as Local: mirrored remote notes (see
// CreateProcessor) are not merged into it.
func (s *TimelineService) Global(beforeId uuid.UUID, limit int) ([]domain.Note, error) {
	return s.Local(beforeId, limit)
}

func (s *TimelineService) Home(accountId uuid.UUID, limit int) ([]domain.HomePost, error) {
	err, posts := s.store.ReadHomeTimelinePosts(accountId, limit)
	if err != nil {
		return nil, err
	}
	return *posts, nil
}
