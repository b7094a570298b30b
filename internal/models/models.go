package models

import (
	"errors"
	"strings"
	"time"
)

type SocialLinks struct {
	Instagram *string `json:"instagram,omitempty"`
	Whatsapp  *string `json:"whatsapp,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Tiktok    *string `json:"tiktok,omitempty"`
}

type Staff struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	ImageName   string       `json:"image_name"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
	Stories     []Story      `json:"stories,omitempty"`
}

// Story is a staff highlight. Active is a soft-delete marker.
type Story struct {
	ID           string    `json:"id"`
	MediaType    string    `json:"media_type"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	Caption      *string   `json:"caption,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Viewed       bool      `json:"viewed"`
	Active       bool      `json:"active"`
}

// IsValid reports whether the story may be displayed. Highlights stay valid until removed.
func (s Story) IsValid() bool {
	return s.Active
}

// HasNewStories reports whether at least one valid story has not been viewed.
func (s Staff) HasNewStories() bool {
	for _, story := range s.Stories {
		if story.IsValid() && !story.Viewed {
			return true
		}
	}
	return false
}

// HasAnyStories reports whether the staff member has at least one valid story.
func (s Staff) HasAnyStories() bool {
	for _, story := range s.Stories {
		if story.IsValid() {
			return true
		}
	}
	return false
}

// StoryIndicator maps the story predicates onto one of the three ring states.
func (s Staff) StoryIndicator() string {
	switch {
	case s.HasNewStories():
		return IndicatorNew
	case s.HasAnyStories():
		return IndicatorViewed
	default:
		return IndicatorNone
	}
}

func (s Staff) ValidStories() []Story {
	var out []Story
	for _, story := range s.Stories {
		if story.IsValid() {
			out = append(out, story)
		}
	}
	return out
}

// Clone returns a copy that shares no slices or pointers with s.
func (s Staff) Clone() Staff {
	out := s
	if s.SocialLinks != nil {
		links := *s.SocialLinks
		out.SocialLinks = &links
	}
	if s.Stories != nil {
		out.Stories = append([]Story(nil), s.Stories...)
	}
	return out
}

type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Duration int    `json:"duration"`
	Icon     string `json:"icon"`
}

func (s Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("service name is required")
	}
	if s.Price < 0 {
		return errors.New("service price must not be negative")
	}
	if s.Duration <= 0 {
		return errors.New("service duration must be positive")
	}
	return nil
}

// Appointment keeps snapshots of the staff and service it was booked with.
type Appointment struct {
	ID          string    `json:"id"`
	StaffID     int64     `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	ServiceName string    `json:"service_name"`
	Price       int       `json:"price"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsActive reports whether the appointment is confirmed and has not started yet.
func (a Appointment) IsActive(now time.Time) bool {
	return a.Status == StatusConfirmed && !a.Date.Before(now)
}

type AppointmentSummary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Total     int `json:"total"`
}

type WaitlistEntry struct {
	ID          string    `json:"id"`
	StaffID     int64     `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	ServiceName string    `json:"service_name"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
}

// Draft holds the selections of an unfinished booking.
type Draft struct {
	Staff   *Staff    `json:"staff,omitempty"`
	Service *Service  `json:"service,omitempty"`
	Date    time.Time `json:"date"`
	Time    string    `json:"time,omitempty"`
}

type BusinessInfo struct {
	Name              string        `json:"name"`
	Location          string        `json:"location"`
	PhoneNumber       string        `json:"phone_number"`
	InstagramUsername *string       `json:"instagram_username,omitempty"`
	OpeningHours      []DaySchedule `json:"opening_hours"`
}

type DaySchedule struct {
	Day       string  `json:"day"`
	DayHebrew string  `json:"day_hebrew"`
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`
	CloseTime *string `json:"close_time,omitempty"`
}

type DateOption struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	IsToday bool      `json:"is_today"`
}
