package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/pkg/httpcontext"
	"github.com/ayush17112005/TaskWiseAI/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	auth *auth.UseCase
}

func NewAuthHandler(uc *auth.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		auth:        uc,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req registerRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	user, tokens, err := h.auth.Register(reqCtx, auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req loginRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	user, tokens, err := h.auth.Login(reqCtx, auth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req refreshRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	tokens, err := h.auth.Refresh(reqCtx, req.RefreshToken)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req refreshRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	if err := h.auth.Logout(reqCtx, req.RefreshToken); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Profile(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	user, err := h.auth.Profile(reqCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

func (h *AuthHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(reqCtx, userID, auth.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	userID, ok := h.userID(ctx)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decodeBody(ctx, &req) {
		return
	}
	if err := h.auth.ChangePassword(reqCtx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "password updated"})
}
