package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/config"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/middleware"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

// refreshCookie is the cookie carrying the raw refresh token.  It is
// HTTP-only and SameSite=Strict so client-side script never sees it.
const refreshCookie = "refreshToken"

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg  config.Config
	Auth *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: svc}
}

// ----- DTOs -----

type loginReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceInfo string `json:"deviceInfo"`
}

type tokenPart struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds until access token expiry
}

type sessionResp struct {
	Success bool           `json:"success"`
	User    model.Identity `json:"user"`
	Tokens  tokenPart      `json:"tokens"`
}

// Login verifies credentials and opens a session.  The refresh token
// travels only in the cookie; the body carries the access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return failMsg(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return failMsg(c, http.StatusBadRequest, "email and password are required")
	}
	device := strings.TrimSpace(req.DeviceInfo)
	if device == "" {
		device = c.Request().UserAgent()
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password, device, c.RealIP())
	if err != nil {
		return h.failAuth(c, err)
	}

	h.setRefreshCookie(c, sess.RefreshToken, sess.RefreshExpiresAt)
	return c.JSON(http.StatusOK, sessionResp{
		Success: true,
		User:    sess.User,
		Tokens:  tokenPart{AccessToken: sess.AccessToken, ExpiresIn: expiresIn(sess.AccessExpiresAt)},
	})
}

// Refresh rotates the session: the cookie token is exchanged for a new
// pair and the old one can never be replayed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := h.refreshFromCookie(c)
	if raw == "" {
		return failMsg(c, http.StatusUnauthorized, auth.ErrRefreshTokenInvalid.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Auth.Refresh(ctx, raw, c.RealIP())
	if err != nil {
		return h.failAuth(c, err)
	}

	h.setRefreshCookie(c, sess.RefreshToken, sess.RefreshExpiresAt)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"tokens":  tokenPart{AccessToken: sess.AccessToken, ExpiresIn: expiresIn(sess.AccessExpiresAt)},
	})
}

// Logout revokes the presented refresh token and clears the cookie.  The
// route sits behind the session gate, so the identity is always resolved.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, auth.ErrTokenMissing.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, id.UserID, h.refreshFromCookie(c), c.RealIP()); err != nil {
		return h.failAuth(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}

// Me returns the identity the session gate resolved from the live record.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return failMsg(c, http.StatusUnauthorized, auth.ErrTokenMissing.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": id})
}

// ----- helpers -----

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func expiresIn(exp time.Time) int64 {
	return int64(time.Until(exp).Seconds())
}

func (h *AuthHandler) refreshFromCookie(c echo.Context) string {
	ck, err := c.Cookie(refreshCookie)
	if err != nil || ck == nil {
		return ""
	}
	return ck.Value
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, raw string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Production(),
		SameSite: http.SameSiteStrictMode,
	})
}

// failAuth maps service errors to the HTTP statuses the clients key off:
// 401 says "credentials or token wrong, maybe refresh", 403 says "account
// state forbids this".  Everything unexpected is logged and turned into a
// generic 500 with no internal detail.
func (h *AuthHandler) failAuth(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenMissing),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenInvalid),
		errors.Is(err, auth.ErrRefreshTokenExpired):
		return failMsg(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrAccountLocked),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrAccountDeleted):
		return failMsg(c, http.StatusForbidden, err.Error())
	default:
		c.Logger().Errorf("auth handler: %v", err)
		return failMsg(c, http.StatusInternalServerError, "internal server error")
	}
}

func failMsg(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
