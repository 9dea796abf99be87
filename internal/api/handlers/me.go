package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
)

type UserService interface {
	SetLanguage(ctx context.Context, user *domain.User, language string) (*domain.User, error)
}

type MeHandler struct {
	svc UserService
}

func NewMeHandler(svc UserService) *MeHandler {
	return &MeHandler{svc: svc}
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

type SetLanguageRequest struct {
	Language string `json:"language"`
}

func userToResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Role:     string(u.Role),
		Region:   string(u.Region),
		Language: u.PreferredLanguage(),
	}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	api.Success(w, http.StatusOK, userToResponse(user))
}

func (h *MeHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req SetLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		api.Error(w, http.StatusBadRequest, "language is required")
		return
	}

	updated, err := h.svc.SetLanguage(r.Context(), user, req.Language)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, userToResponse(updated))
}
