package service

import (
	"context"
	"sync"

	"bookyz/internal/domain"
	"bookyz/internal/events"
	"bookyz/internal/models"

	"github.com/rs/zerolog"
)

// WaitlistService records interest in a staff member and service when no
// slot suits the customer.
type WaitlistService struct {
	mu       sync.Mutex
	kv       domain.KVStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	entries  []models.WaitlistEntry
}

func NewWaitlistService(kv domain.KVStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *WaitlistService {
	return &WaitlistService{
		kv:       kv,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *WaitlistService) Load(ctx context.Context) error {
	var entries []models.WaitlistEntry
	if _, err := loadJSON(ctx, s.kv, models.KeyWaitlist, &entries); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func (s *WaitlistService) Add(ctx context.Context, entry models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if err := saveJSON(ctx, s.kv, models.KeyWaitlist, s.entries); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		s.logger.Error().Err(err).Msg("failed to persist waitlist")
		return err
	}

	s.logger.Info().Str("entry_id", entry.ID).Str("staff", entry.StaffName).Msg("waitlist joined")
	publishEvent(s.eventBus, s.logger, events.EventWaitlistJoined, events.WaitlistEventPayload{
		EntryID:     entry.ID,
		StaffID:     entry.StaffID,
		StaffName:   entry.StaffName,
		ServiceName: entry.ServiceName,
	})
	return nil
}

func (s *WaitlistService) All() []models.WaitlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WaitlistEntry(nil), s.entries...)
}

func (s *WaitlistService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		previous := s.entries
		s.entries = append(append([]models.WaitlistEntry{}, s.entries[:i]...), s.entries[i+1:]...)
		if err := saveJSON(ctx, s.kv, models.KeyWaitlist, s.entries); err != nil {
			s.entries = previous
			return err
		}
		return nil
	}
	return ErrWaitlistEntryNotFound
}
