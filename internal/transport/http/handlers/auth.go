package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/middleware"
)

type signUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"password_current"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// SignUp — POST /auth/signup.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	res, err := h.Svc.SignUp(r.Context(), service.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	setTokenCookie(w, h.Cfg.Auth, res.Token, h.Cfg.Auth.TokenTTL)
	writeJSON(w, http.StatusCreated, successResponse{
		Status: "success",
		Token:  res.Token,
		Data:   res.User,
	})
}

// LogIn — POST /auth/login.
func (h *Handlers) LogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	res, err := h.Svc.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	setTokenCookie(w, h.Cfg.Auth, res.Token, h.Cfg.Auth.TokenTTL)
	writeJSON(w, http.StatusOK, successResponse{
		Status: "success",
		Token:  res.Token,
		Data:   res.User,
	})
}

// ForgotPassword — POST /auth/forgot-password.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	if err := h.Svc.ForgotPassword(r.Context(), req.Email); err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Status: "success",
		Data:   map[string]string{"message": "token sent to email"},
	})
}

// ResetPassword — PATCH /auth/reset-password/{token}.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	res, err := h.Svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password, req.PasswordConfirm)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	setTokenCookie(w, h.Cfg.Auth, res.Token, h.Cfg.Auth.TokenTTL)
	writeJSON(w, http.StatusOK, successResponse{
		Status: "success",
		Token:  res.Token,
		Data:   res.User,
	})
}

// UpdatePassword — PATCH /auth/update-password (только после Protect).
func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	var req updatePasswordRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	res, err := h.Svc.UpdatePassword(r.Context(), user, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	setTokenCookie(w, h.Cfg.Auth, res.Token, h.Cfg.Auth.TokenTTL)
	writeJSON(w, http.StatusOK, successResponse{
		Status: "success",
		Token:  res.Token,
		Data:   res.User,
	})
}
