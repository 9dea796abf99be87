package handlers

import (
	"net/http"
	"strconv"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/api/middleware"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/go-chi/chi/v5"
)

const timeLayout = "2006-01-02T15:04:05Z"

// currentUser returns the authenticated caller or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

// currentSession returns the session attached by the session middleware or
// writes 500.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return sess, true
}

func ticketIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid ticket id")
		return 0, false
	}
	return id, true
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}
