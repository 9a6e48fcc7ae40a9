package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/middleware"
)

type photoPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type photoPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	PhotoKey       string            `json:"photo_key"`
	ExpiresSeconds int64             `json:"expires_seconds"`
	RequiredHeader map[string]string `json:"required_header,omitempty"`
}

type photoConfirmRequest struct {
	Key string `json:"key"`
}

// Me — GET /users/me: профиль текущего пользователя.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	writeData(w, http.StatusOK, user)
}

// UpdateMe — PATCH /users/me: только name/email, поля пароля отклоняются.
func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	patch, err := decodePatch(r)
	if err != nil {
		badRequest(w, r, h.env())
		return
	}

	updated, err := h.Svc.UpdateMe(r.Context(), user, patch)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusOK, updated)
}

// DeleteMe — DELETE /users/me: мягкое удаление, 204.
func (h *Handlers) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	if err := h.Svc.DeleteMe(r.Context(), user); err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PhotoPresign — POST /users/me/photo/presign: presigned PUT URL для
// загрузки фотографии профиля.
func (h *Handlers) PhotoPresign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	var req photoPresignRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	info, err := h.Svc.PhotoUploadURL(r.Context(), user, req.ContentType, req.ContentLength)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusOK, photoPresignResponse{
		UploadURL:      info.UploadURL,
		PhotoKey:       info.PhotoKey,
		ExpiresSeconds: int64(info.Expires.Seconds()),
		RequiredHeader: info.RequiredHeader,
	})
}

// PhotoConfirm — POST /users/me/photo/confirm: подтверждение загрузки,
// ключ сохраняется в профиле.
func (h *Handlers) PhotoConfirm(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	var req photoConfirmRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	updated, err := h.Svc.ConfirmPhotoUpload(r.Context(), user, req.Key)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusOK, updated)
}
