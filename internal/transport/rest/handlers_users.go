package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/service"
	"github.com/flashboard/board-service/internal/transport/rest/response"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=32,username_format"`
	Mail           string `json:"mail" validate:"required,email,max=254"`
	Password       string `json:"password" validate:"required,min=8,max=72,password_strength"`
	IsEmailVisible bool   `json:"isEmailVisible"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Error(w, domain.ErrInvalidJSON(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		response.Error(w, err)
		return
	}

	_, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username:       sanitizeInput(req.Username, 32),
		Mail:           sanitizeInput(req.Mail, 254),
		Password:       req.Password,
		IsEmailVisible: req.IsEmailVisible,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Successfully registered", nil)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Error(w, domain.ErrInvalidJSON(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		response.Error(w, err)
		return
	}

	token, _, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, "User connected", map[string]any{"token": token})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, domain.ErrInvalidField("id", "must be a valid uuid"))
		return
	}

	u, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, u.Public())
}

func (h *UserHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(chi.URLParam(r, "name"), 32)
	if name == "" {
		response.Error(w, domain.ErrInvalidField("name", "must not be empty"))
		return
	}

	u, err := h.svc.GetByUsername(r.Context(), name)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, u.Public())
}

type updateUserRequest struct {
	Token          string  `json:"token,omitempty"` // consumed by TokenAuth
	NewMail        *string `json:"newMail" validate:"omitempty,email,max=254"`
	NewPassword    *string `json:"newPassword" validate:"omitempty,min=8,max=72,password_strength"`
	IsEmailVisible *bool   `json:"isEmailVisible"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	var req updateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Error(w, domain.ErrInvalidJSON(err))
		return
	}
	if err := validateRequest(&req); err != nil {
		response.Error(w, err)
		return
	}

	err := h.svc.Update(r.Context(), claims.SubjectID, service.UpdateUserInput{
		NewMail:        req.NewMail,
		NewPassword:    req.NewPassword,
		IsEmailVisible: req.IsEmailVisible,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Successfully updated", nil)
}

// Delete removes the authenticated user's own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaims(r.Context())
	if !ok {
		response.Error(w, domain.ErrTokenMissing())
		return
	}

	if err := h.svc.Delete(r.Context(), claims.SubjectID); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User deleted", nil)
}
