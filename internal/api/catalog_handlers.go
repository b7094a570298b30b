package api

import (
	"net/http"
	"strconv"
	"strings"

	"bookyz/internal/models"
	"bookyz/internal/service"
)

// staffView adds the story ring state to a staff member.
type staffView struct {
	models.Staff
	StoryIndicator string `json:"story_indicator"`
	HasNewStories  bool   `json:"has_new_stories"`
}

func newStaffView(s models.Staff) staffView {
	return staffView{
		Staff:          s,
		StoryIndicator: s.StoryIndicator(),
		HasNewStories:  s.HasNewStories(),
	}
}

func (s *HTTPServer) handleBusiness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Catalog.Business())
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": s.state.Catalog.Services()})
}

func (s *HTTPServer) handleTimes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"times": s.state.Catalog.TimeSlots()})
}

func (s *HTTPServer) handleDates(w http.ResponseWriter, _ *http.Request) {
	options := s.state.Catalog.DateOptions(s.state.Now(), s.state.BookingDays)
	writeJSON(w, http.StatusOK, map[string]any{"dates": options})
}

func (s *HTTPServer) handleStaff(w http.ResponseWriter, _ *http.Request) {
	staff := s.state.Stories.Staff()
	views := make([]staffView, 0, len(staff))
	for _, st := range staff {
		views = append(views, newStaffView(st))
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": views})
}

func (s *HTTPServer) handleStaffStories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathStaffID(w, r)
	if !ok {
		return
	}

	staff, err := s.state.Stories.StaffByID(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	stories := staff.ValidStories()
	if stories == nil {
		stories = []models.Story{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"staff_id":        staff.ID,
		"story_indicator": staff.StoryIndicator(),
		"stories":         stories,
	})
}

func (s *HTTPServer) handleViewStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathStaffID(w, r)
	if !ok {
		return
	}

	staff, err := s.state.Stories.MarkViewed(r.Context(), id, r.PathValue("story"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStaffView(staff))
}

func (s *HTTPServer) handleProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Profile.Current())
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body service.ProfileUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	profile, err := s.state.Profile.Update(r.Context(), body)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	profile, err := s.state.Profile.SetNotifications(r.Context(), *body.Enabled)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	profile, err := s.state.Profile.Logout(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func pathStaffID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid staff id")
		return 0, false
	}
	return id, true
}
