package middleware

import (
	"errors"
	"net/http"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"go.uber.org/zap"
)

// SessionIDHeader selects the caller's session.
const SessionIDHeader = "X-Session-ID"

// Session loads the session named by X-Session-ID, minting a new one when the
// header is absent, expired or belongs to another user. The session is saved
// after the handler returns and its id is echoed in the response header.
// It must run after UserAuth.
func Session(store session.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				api.Error(w, http.StatusUnauthorized, "unknown user")
				return
			}

			var sess *session.Session
			if id := r.Header.Get(SessionIDHeader); id != "" {
				s, err := store.Get(r.Context(), id)
				switch {
				case errors.Is(err, session.ErrNotFound):
				case err != nil:
					logger.Warn("session lookup failed", zap.String("session_id", id), zap.Error(err))
				case s.UserID == user.ID:
					sess = s
				}
			}
			if sess == nil {
				sess = session.New(user.ID)
			}

			w.Header().Set(SessionIDHeader, sess.ID)
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))

			if err := store.Save(r.Context(), sess); err != nil {
				logger.Warn("session save failed", zap.String("session_id", sess.ID), zap.Error(err))
			}
		})
	}
}
