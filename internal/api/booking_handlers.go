package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookyz/internal/export"
	"bookyz/internal/models"
	"bookyz/internal/service"
)

func (s *HTTPServer) handleBookingState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Flow.Snapshot())
}

func (s *HTTPServer) handleChooseStaff(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StaffID int64 `json:"staff_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	staff, err := s.state.Stories.StaffByID(body.StaffID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	snapshot, err := s.state.Flow.ChooseStaff(staff)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *HTTPServer) handleChooseService(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ServiceID string `json:"service_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	svc, ok := s.state.Catalog.ServiceByID(strings.TrimSpace(body.ServiceID))
	if !ok {
		s.writeServiceError(w, service.ErrServiceNotFound)
		return
	}

	snapshot, err := s.state.Flow.ChooseService(svc)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *HTTPServer) handleChooseDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(body.Date), s.state.Catalog.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	snapshot, err := s.state.Flow.ChooseDate(date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *HTTPServer) handleChooseTime(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Time string `json:"time"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	snapshot, err := s.state.Flow.ChooseTime(strings.TrimSpace(body.Time))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	appointment, err := s.state.Flow.Confirm(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

func (s *HTTPServer) handleBack(w http.ResponseWriter, _ *http.Request) {
	snapshot, exit := s.state.Flow.GoBack()
	writeJSON(w, http.StatusOK, map[string]any{"state": snapshot, "exit": exit})
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Flow.Cancel())
}

func (s *HTTPServer) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	entry, err := s.state.Flow.JoinWaitlist(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *HTTPServer) handleAppointments(w http.ResponseWriter, _ *http.Request) {
	appointments := s.state.Appointments.All()
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Appointments.Summary(s.state.Now()))
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, _ *http.Request) {
	now := s.state.Now()
	var buf bytes.Buffer
	err := export.AppointmentsXLSX(&buf, s.state.Appointments.All(), s.state.Appointments.Summary(now), s.state.Catalog.Location())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "appointments_"+now.Format(models.DateLayout)+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appointment, err := s.state.Appointments.UpdateStatus(r.Context(), r.PathValue("id"), strings.TrimSpace(body.Status))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (s *HTTPServer) handleRemoveAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.state.Appointments.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.state.Flow.BeginReschedule(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *HTTPServer) handleWaitlist(w http.ResponseWriter, _ *http.Request) {
	entries := s.state.Waitlist.All()
	if entries == nil {
		entries = []models.WaitlistEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"waitlist": entries})
}
