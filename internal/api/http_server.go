package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookyz/internal/app"
	"bookyz/internal/config"
	"bookyz/internal/metrics"
	"bookyz/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking state as a JSON API.
type HTTPServer struct {
	cfg     config.APIConfig
	state   *app.State
	logger  *zerolog.Logger
	limiter *rateLimiter
	server  *http.Server
}

func NewHTTPServer(cfg config.APIConfig, state *app.State, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:     cfg,
		state:   state,
		logger:  logger,
		limiter: newRateLimiter(cfg.RateLimit),
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	handler := srv.loggingMiddleware(srv.limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/v1/business", s.handleBusiness)
	mux.HandleFunc("GET /api/v1/services", s.handleServices)
	mux.HandleFunc("GET /api/v1/times", s.handleTimes)
	mux.HandleFunc("GET /api/v1/dates", s.handleDates)

	mux.HandleFunc("GET /api/v1/staff", s.handleStaff)
	mux.HandleFunc("GET /api/v1/staff/{id}/stories", s.handleStaffStories)
	mux.HandleFunc("POST /api/v1/staff/{id}/stories/{story}/view", s.handleViewStory)

	mux.HandleFunc("GET /api/v1/booking", s.handleBookingState)
	mux.HandleFunc("POST /api/v1/booking/staff", s.handleChooseStaff)
	mux.HandleFunc("POST /api/v1/booking/service", s.handleChooseService)
	mux.HandleFunc("POST /api/v1/booking/date", s.handleChooseDate)
	mux.HandleFunc("POST /api/v1/booking/time", s.handleChooseTime)
	mux.HandleFunc("POST /api/v1/booking/confirm", s.handleConfirm)
	mux.HandleFunc("POST /api/v1/booking/back", s.handleBack)
	mux.HandleFunc("POST /api/v1/booking/cancel", s.handleCancel)
	mux.HandleFunc("POST /api/v1/booking/waitlist", s.handleJoinWaitlist)

	mux.HandleFunc("GET /api/v1/appointments", s.handleAppointments)
	mux.HandleFunc("GET /api/v1/appointments/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/appointments/export", s.handleExport)
	mux.HandleFunc("PATCH /api/v1/appointments/{id}", s.handleUpdateStatus)
	mux.HandleFunc("DELETE /api/v1/appointments/{id}", s.handleRemoveAppointment)
	mux.HandleFunc("POST /api/v1/appointments/{id}/reschedule", s.handleReschedule)

	mux.HandleFunc("GET /api/v1/waitlist", s.handleWaitlist)

	mux.HandleFunc("GET /api/v1/profile", s.handleProfile)
	mux.HandleFunc("PUT /api/v1/profile", s.handleUpdateProfile)
	mux.HandleFunc("PUT /api/v1/profile/notifications", s.handleNotifications)
	mux.HandleFunc("POST /api/v1/profile/logout", s.handleLogout)
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTP(route, recorder.status)

		event := s.logger.Debug()
		if recorder.status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("dur", time.Since(start)).
			Msg("http request")
	})
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrStaffNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, service.ErrWaitlistEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidStep),
		errors.Is(err, service.ErrIncompleteDraft),
		errors.Is(err, service.ErrDuplicateAppointment):
		return http.StatusConflict
	case errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrDateTooFar),
		errors.Is(err, service.ErrUnknownTimeSlot),
		errors.Is(err, service.ErrInvalidService),
		errors.Is(err, service.ErrInvalidStaff),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidProfile):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, code, "internal error")
		return
	}
	writeError(w, code, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
