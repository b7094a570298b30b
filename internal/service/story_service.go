package service

import (
	"context"
	"sort"
	"sync"

	"bookyz/internal/domain"
	"bookyz/internal/events"
	"bookyz/internal/models"

	"github.com/rs/zerolog"
)

// StoryService overlays the device's viewed-story set on the catalog staff.
type StoryService struct {
	mu       sync.Mutex
	catalog  domain.Catalog
	kv       domain.KVStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	viewed   map[string]struct{}
}

func NewStoryService(catalog domain.Catalog, kv domain.KVStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *StoryService {
	return &StoryService{
		catalog:  catalog,
		kv:       kv,
		eventBus: eventBus,
		logger:   logger,
		viewed:   make(map[string]struct{}),
	}
}

func (s *StoryService) Load(ctx context.Context) error {
	var ids []string
	if _, err := loadJSON(ctx, s.kv, models.KeyViewedStories, &ids); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.viewed[id] = struct{}{}
	}
	return nil
}

// Staff returns the catalog staff with viewed flags applied.
func (s *StoryService) Staff() []models.Staff {
	s.mu.Lock()
	defer s.mu.Unlock()

	staff := s.catalog.Staff()
	for i := range staff {
		s.apply(&staff[i])
	}
	return staff
}

func (s *StoryService) StaffByID(id int64) (models.Staff, error) {
	staff, ok := s.catalog.StaffByID(id)
	if !ok {
		return models.Staff{}, ErrStaffNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(&staff)
	return staff, nil
}

// MarkViewed records that a story was opened in the viewer. Marking a story
// twice is a no-op.
func (s *StoryService) MarkViewed(ctx context.Context, staffID int64, storyID string) (models.Staff, error) {
	staff, ok := s.catalog.StaffByID(staffID)
	if !ok {
		return models.Staff{}, ErrStoryNotFound
	}

	found := false
	for _, story := range staff.Stories {
		if story.ID == storyID && story.IsValid() {
			found = true
			break
		}
	}
	if !found {
		return models.Staff{}, ErrStoryNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.viewed[storyID]; !ok {
		s.viewed[storyID] = struct{}{}
		if err := saveJSON(ctx, s.kv, models.KeyViewedStories, s.viewedIDs()); err != nil {
			delete(s.viewed, storyID)
			s.logger.Error().Err(err).Msg("failed to persist viewed stories")
			return models.Staff{}, err
		}
		s.logger.Debug().Int64("staff_id", staffID).Str("story_id", storyID).Msg("story viewed")
		publishEvent(s.eventBus, s.logger, events.EventStoryViewed, events.StoryEventPayload{
			StaffID: staffID,
			StoryID: storyID,
		})
	}

	s.apply(&staff)
	return staff, nil
}

func (s *StoryService) ResetViewed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, models.KeyViewedStories); err != nil {
		return err
	}
	s.viewed = make(map[string]struct{})
	return nil
}

// apply must be called with mu held.
func (s *StoryService) apply(staff *models.Staff) {
	for i := range staff.Stories {
		if _, ok := s.viewed[staff.Stories[i].ID]; ok {
			staff.Stories[i].Viewed = true
		}
	}
}

func (s *StoryService) viewedIDs() []string {
	ids := make([]string, 0, len(s.viewed))
	for id := range s.viewed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
