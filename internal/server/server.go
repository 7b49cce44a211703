package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/auth"
	"github.com/dvcrn/mpesa-go/internal/operation"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
	operationPrefix = "/v1/"
)

// Dispatcher is the subset of *mpesa.Client the gateway needs
type Dispatcher interface {
	Dispatch(ctx context.Context, kind mpesa.Kind, payload map[string]interface{}) (*mpesa.Outcome, error)
	RefreshToken(ctx context.Context) error
	TokenStatus() auth.Status
	Environment() string
}

type Options struct {
	// AdminAPIKey guards /v1 and /admin routes. When empty those routes
	// answer 500.
	AdminAPIKey string
}

type Server struct {
	dispatcher Dispatcher
	adminKey   string
	mux        *http.ServeMux
	logger     zerolog.Logger
	now        func() time.Time
}

func New(logger zerolog.Logger, dispatcher Dispatcher, opts Options) *Server {
	s := &Server{
		dispatcher: dispatcher,
		adminKey:   opts.AdminAPIKey,
		mux:        http.NewServeMux(),
		logger:     logger,
		now:        time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc(operationPrefix, s.adminMiddleware(s.operationHandler))
	s.mux.HandleFunc("/health", s.healthHandler)
	s.mux.HandleFunc("/admin/token/status", s.adminMiddleware(s.tokenStatusHandler))
	s.mux.HandleFunc("/admin/token/refresh", s.adminMiddleware(s.tokenRefreshHandler))
	s.mux.HandleFunc("/", s.notFoundHandler)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.loggingMiddleware(s.mux).ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(requestIDHeader, requestID)
		}
		w.Header().Set(requestIDHeader, requestID)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("remote_addr", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("Incoming request")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status_code", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Finished request")
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn().
		Str("method", r.Method).
		Str("uri", r.RequestURI).
		Str("remote_addr", r.RemoteAddr).
		Str("user_agent", r.UserAgent()).
		Msg("Unhandled route")
	http.NotFound(w, r)
}

// operationHandler serves POST /v1/{kind}
func (s *Server) operationHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := operation.Parse(strings.TrimPrefix(r.URL.Path, operationPrefix))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, message("Unknown operation"))
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload, err := decodePayload(w, r)
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", kind.String()).Msg("Error parsing request body")
		s.writeJSON(w, http.StatusBadRequest, message("Invalid JSON body"))
		return
	}

	outcome, err := s.dispatcher.Dispatch(r.Context(), kind, payload)
	if err != nil {
		if errors.Is(err, mpesa.ErrAuthentication) {
			s.logger.Error().Err(err).Str("operation", kind.String()).Msg("Upstream authentication failed")
			s.writeJSON(w, http.StatusBadGateway, message("Authentication failed"))
			return
		}
		s.logger.Error().Err(err).Str("operation", kind.String()).Msg("Dispatch failed")
		s.writeJSON(w, http.StatusInternalServerError, message("Internal error"))
		return
	}

	event := s.logger.Info()
	if outcome.Err != nil {
		event = s.logger.Warn().Err(outcome.Err)
	}
	event.
		Str("operation", kind.String()).
		Str("request_id", r.Header.Get(requestIDHeader)).
		Int("status_code", outcome.StatusCode).
		Msg("Operation completed")

	s.writeBody(w, outcome.StatusCode, outcome.Body)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return payload, nil
}

func (s *Server) tokenStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.tokenStatus())
}

func (s *Server) tokenRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.dispatcher.RefreshToken(r.Context()); err != nil {
		if errors.Is(err, auth.ErrRefreshUnsupported) {
			s.writeJSON(w, http.StatusConflict, message("Token source cannot refresh"))
			return
		}
		s.logger.Error().Err(err).Msg("Manual token refresh failed")
		s.writeJSON(w, http.StatusBadGateway, message("Authentication failed"))
		return
	}

	s.logger.Info().Msg("Access token refreshed via admin endpoint")
	s.writeJSON(w, http.StatusOK, s.tokenStatus())
}

func (s *Server) tokenStatus() map[string]interface{} {
	st := s.dispatcher.TokenStatus()
	response := map[string]interface{}{
		"environment": s.dispatcher.Environment(),
		"managed":     st.Managed,
		"hasToken":    st.HasToken,
	}
	if st.Managed && st.HasToken {
		secondsUntilExpiry := int64(st.ExpiresAt.Sub(s.now()).Seconds())
		response["expiresAt"] = st.ExpiresAt.UnixMilli()
		response["secondsUntilExpiry"] = secondsUntilExpiry
		response["isExpired"] = st.IsExpired
	}
	return response
}

func message(msg string) map[string]interface{} {
	return map[string]interface{}{"message": msg}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeBody relays an upstream body. Plain text bodies are written as-is.
func (s *Server) writeBody(w http.ResponseWriter, status int, body interface{}) {
	switch b := body.(type) {
	case nil:
		w.WriteHeader(status)
	case string:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(b))
	default:
		s.writeJSON(w, status, b)
	}
}
