package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bookyz/internal/domain"
	"bookyz/internal/events"
	"bookyz/internal/models"

	"github.com/rs/zerolog"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Address          string  `json:"address"`
	ProfileImageName *string `json:"profile_image_name,omitempty"`
}

// ProfileService owns the single user profile stored on the device.
type ProfileService struct {
	mu       sync.Mutex
	kv       domain.KVStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	profile  models.UserProfile
}

func NewProfileService(kv domain.KVStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *ProfileService {
	return &ProfileService{
		kv:       kv,
		eventBus: eventBus,
		logger:   logger,
		profile:  models.DefaultUserProfile(),
	}
}

// Load reads the stored profile. Anything missing, undecodable or lacking an
// id or name falls back to the default profile; only a storage failure is
// returned.
func (s *ProfileService) Load(ctx context.Context) error {
	var stored models.UserProfile
	found, err := loadJSON(ctx, s.kv, models.KeyCurrentUser, &stored)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil && !found:
		s.profile = models.DefaultUserProfile()
		return err
	case err != nil:
		s.logger.Warn().Err(err).Msg("stored profile is malformed, using default")
		s.profile = models.DefaultUserProfile()
	case !found:
		s.profile = models.DefaultUserProfile()
	case stored.ID == "" || strings.TrimSpace(stored.Name) == "":
		s.logger.Warn().Msg("stored profile has no id or name, using default")
		s.profile = models.DefaultUserProfile()
	default:
		s.profile = stored
	}
	return nil
}

func (s *ProfileService) Current() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (models.UserProfile, error) {
	name := strings.TrimSpace(update.Name)
	if name == "" {
		return models.UserProfile{}, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.profile
	next.Name = name
	next.Phone = strings.TrimSpace(update.Phone)
	next.Email = strings.TrimSpace(update.Email)
	next.Address = strings.TrimSpace(update.Address)
	next.ProfileImageName = update.ProfileImageName
	return s.save(ctx, next, events.EventProfileUpdated)
}

func (s *ProfileService) SetNotifications(ctx context.Context, enabled bool) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.profile
	next.NotificationsEnabled = enabled
	return s.save(ctx, next, events.EventProfileUpdated)
}

// Logout forgets the stored profile and resets to the default one.
func (s *ProfileService) Logout(ctx context.Context) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, models.KeyCurrentUser); err != nil {
		return models.UserProfile{}, fmt.Errorf("delete %s: %w", models.KeyCurrentUser, err)
	}

	previous := s.profile
	s.profile = models.DefaultUserProfile()
	s.logger.Info().Str("profile_id", previous.ID).Msg("profile logged out")
	publishEvent(s.eventBus, s.logger, events.EventProfileLoggedOut, events.ProfileEventPayload{
		ProfileID:            previous.ID,
		NotificationsEnabled: previous.NotificationsEnabled,
	})
	return s.profile, nil
}

// save must be called with mu held.
func (s *ProfileService) save(ctx context.Context, next models.UserProfile, eventType string) (models.UserProfile, error) {
	if err := saveJSON(ctx, s.kv, models.KeyCurrentUser, next); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist profile")
		return models.UserProfile{}, err
	}
	s.profile = next
	publishEvent(s.eventBus, s.logger, eventType, events.ProfileEventPayload{
		ProfileID:            next.ID,
		NotificationsEnabled: next.NotificationsEnabled,
	})
	return next, nil
}
