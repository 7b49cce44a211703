package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

var (
	errMissingAdminKey = errors.New("missing Authorization or X-API-Key header")
	errMalformedBearer = errors.New("invalid Authorization header format")
)

// adminKeyFromRequest reads 'Authorization: Bearer <key>', falling back to
// 'X-API-Key: <key>'. The scheme is matched case-insensitively.
func adminKeyFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, key, ok := strings.Cut(header, " ")
		if !ok || key == "" || strings.Contains(key, " ") || !strings.EqualFold(scheme, "Bearer") {
			return "", errMalformedBearer
		}
		return key, nil
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, nil
	}
	return "", errMissingAdminKey
}

// adminMiddleware guards operation and admin routes with the configured key
func (s *Server) adminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" {
			s.logger.Error().Msg("Admin API key not configured")
			http.Error(w, "Admin API not configured", http.StatusInternalServerError)
			return
		}

		provided, err := adminKeyFromRequest(r)
		if err == nil && subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminKey)) != 1 {
			err = errors.New("invalid admin API key")
		}
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Str("remote_addr", r.RemoteAddr).
				Msg("Rejected admin request")
			msg := "Unauthorized"
			if errors.Is(err, errMalformedBearer) {
				msg = errMalformedBearer.Error()
			}
			http.Error(w, msg, http.StatusUnauthorized)
			return
		}

		s.logger.Debug().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Msg("Admin request authorized")
		next(w, r)
	}
}
