package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
)

type IndexService interface {
	Rebuild(ctx context.Context) (*service.RebuildResult, error)
	UploadPolicy(ctx context.Context, name string, content []byte) (*service.RebuildResult, error)
}

type AdminHandler struct {
	svc IndexService
}

func NewAdminHandler(svc IndexService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type UploadPolicyRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

const maxPolicyBytes = 4 << 20

// RebuildIndex handles POST /admin/index/rebuild.
func (h *AdminHandler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Rebuild(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, res)
}

// UploadPolicy handles POST /admin/policies. It accepts a JSON body or a
// multipart form with a "file" part.
func (h *AdminHandler) UploadPolicy(w http.ResponseWriter, r *http.Request) {
	name, content, err := readPolicyUpload(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.UploadPolicy(r.Context(), name, content)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, res)
}

func readPolicyUpload(r *http.Request) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPolicyBytes); err != nil {
			return "", nil, errors.New("invalid multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, errors.New("file is required")
		}
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, maxPolicyBytes))
		if err != nil {
			return "", nil, errors.New("could not read file")
		}
		return header.Filename, content, nil
	}

	var req UploadPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, errors.New("invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return "", nil, errors.New("name is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return "", nil, errors.New("content is required")
	}
	return req.Name, []byte(req.Content), nil
}
