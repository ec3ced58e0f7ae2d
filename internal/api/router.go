package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createRelationshipHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/create_relationship"
	createSessionHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/create_session"
	getAvailabilityHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_available_slots"
	getMentorMetricsHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_mentor_metrics"
	getNotificationsHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_notifications"
	getSessionHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_session"
	getUserSessionsHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/get_user_sessions"
	markNotificationReadHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/mark_notification_read"
	rescheduleSessionHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/reschedule_session"
	submitFeedbackHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/submit_feedback"
	updateAvailabilityHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/update_availability"
	updateRelationshipStatusHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/update_relationship_status"
	updateSessionStatusHandler "github.com/m04kA/SMC-MentorshipService/internal/api/handlers/update_session_status"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
	"github.com/m04kA/SMC-MentorshipService/internal/service/scheduling"
	"github.com/m04kA/SMC-MentorshipService/pkg/metrics"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RouterConfig зависимости HTTP слоя
type RouterConfig struct {
	Engine      *scheduling.Service
	Inbox       *notify.Inbox
	Metrics     *metrics.Metrics // nil = без /metrics и HTTP метрик
	MetricsPath string
	Logger      Logger
}

// NewRouter регистрирует все маршруты /api/v1
func NewRouter(cfg RouterConfig) *mux.Router {
	engine := cfg.Engine
	log := cfg.Logger

	// Handlers
	createSession := createSessionHandler.NewHandler(engine, log)
	getSession := getSessionHandler.NewHandler(engine.Sessions(), log)
	updateSessionStatus := updateSessionStatusHandler.NewHandler(engine, log)
	rescheduleSession := rescheduleSessionHandler.NewHandler(engine, log)
	submitFeedback := submitFeedbackHandler.NewHandler(engine, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(engine, log)
	getMentorMetrics := getMentorMetricsHandler.NewHandler(engine, log)
	getAvailability := getAvailabilityHandler.NewHandler(engine.Availability(), log)
	updateAvailability := updateAvailabilityHandler.NewHandler(engine.Availability(), log)
	getUserSessions := getUserSessionsHandler.NewHandler(engine.Sessions(), log)
	createRelationship := createRelationshipHandler.NewHandler(engine.Availability(), log)
	updateRelationshipStatus := updateRelationshipStatusHandler.NewHandler(engine.Availability(), log)

	r := mux.NewRouter()

	if cfg.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(cfg.Metrics))
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/mentors/{id}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Сессии ---
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}/status", updateSessionStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/sessions/{id}/reschedule", rescheduleSession.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/sessions/{id}/feedback", submitFeedback.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{id}/sessions", getUserSessions.Handle).Methods(http.MethodGet)

	// --- Менторы ---
	protected.HandleFunc("/mentors/{id}/metrics", getMentorMetrics.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/mentors/{id}/availability", getAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/mentors/{id}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// --- Связи ---
	protected.HandleFunc("/relationships", createRelationship.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/relationships/{id}/status", updateRelationshipStatus.Handle).Methods(http.MethodPatch)

	// --- Уведомления ---
	if cfg.Inbox != nil {
		getNotifications := getNotificationsHandler.NewHandler(cfg.Inbox, log)
		markNotificationRead := markNotificationReadHandler.NewHandler(cfg.Inbox, log)
		protected.HandleFunc("/users/{id}/notifications", getNotifications.Handle).Methods(http.MethodGet)
		protected.HandleFunc("/notifications/{id}/read", markNotificationRead.Handle).Methods(http.MethodPost)
	}

	return r
}
