package handler

import (
	"context"  // request context passed to the service
	"errors"   // errors.Is for mapping service errors
	"net/http" // HTTP status codes and primitives

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.uber.org/zap"            // structured logging

	"github.com/iliyamo/credential-service/internal/service" // registration and login logic
)

// Authenticator is the part of service.AuthService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (service.AuthResult, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth Authenticator
	Log  *zap.Logger
}

func NewAuthHandler(a Authenticator, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Auth: a, Log: log}
}

// ----- DTOs -----

type authResp struct {
	Message string             `json:"message"`
	User    service.PublicUser `json:"user"`
	Token   string             `json:"token"`
}

type errorResp struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResp{Error: "invalid body"})
	}

	res, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, authResp{
		Message: "user registered successfully",
		User:    res.User,
		Token:   res.Token.Token,
	})
}

// Login: verify credentials by username or email and return a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResp{Error: "invalid body"})
	}

	res, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		Message: "logged in successfully",
		User:    res.User,
		Token:   res.Token.Token,
	})
}

// fail maps service errors onto statuses.  Only the sentinel messages reach
// the client; internal causes were already logged by the service.
func (h *AuthHandler) fail(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, errorResp{Error: service.ErrValidation.Error(), Fields: ve.Fields})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusBadRequest, errorResp{Error: service.ErrConflict.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, errorResp{Error: service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrInternal):
	default:
		h.Log.Error("unexpected auth error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(http.StatusInternalServerError, errorResp{Error: service.ErrInternal.Error()})
}
