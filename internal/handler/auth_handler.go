package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todoapp/internal/apperr"
	"todoapp/internal/service/auth"
	"todoapp/internal/session"
	"todoapp/pkg/metrics"
)

type AuthHandler struct {
	authService *auth.Service
	sessionTTL  time.Duration
	logger      *zap.Logger
}

func NewAuthHandler(authService *auth.Service, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(session.CookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}

// RegisterPage handles GET /register. The view model is consumed by the
// external renderer.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": false, "flash": popFlash(c)})
}

// Register handles POST /register with form fields name, email, password.
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	u, token, err := h.authService.Register(c.Request.Context(), name, email, password)
	if errors.Is(err, apperr.ErrEmailTaken) {
		setFlash(c, "You've already signed up with that email, log in instead!")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if apperr.IsValidation(err) {
		setFlash(c, err.Error())
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}
	if err != nil {
		h.logger.Error("Registration failed", zap.Error(err))
		setFlash(c, "Registration failed, please try again.")
		c.Redirect(http.StatusSeeOther, "/register")
		return
	}

	h.logger.Info("User registered",
		zap.Int("user_id", u.ID),
		zap.String("email", u.Email),
	)
	h.setSessionCookie(c, token)
	setFlash(c, "Registration successful and you are now logged in!")
	c.Redirect(http.StatusSeeOther, "/")
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_in": false, "flash": popFlash(c)})
}

// Login handles POST /login with form fields email, password.
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := currentUserID(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	email := c.PostForm("email")
	password := c.PostForm("password")

	u, token, err := h.authService.Login(c.Request.Context(), email, password)
	if errors.Is(err, apperr.ErrUnknownEmail) || errors.Is(err, apperr.ErrBadCredential) {
		metrics.IncrementLogin("failed")
		setFlash(c, err.Error()+", please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if err != nil {
		h.logger.Error("Login failed", zap.Error(err))
		metrics.IncrementLogin("failed")
		setFlash(c, "Login failed, please try again.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	h.logger.Info("User logged in", zap.Int("user_id", u.ID))
	metrics.IncrementLogin("success")
	h.setSessionCookie(c, token)
	setFlash(c, "Logged in successfully!")
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles GET /logout. Page route, so an unauthenticated caller
// is redirected to the login view instead of getting a JSON error.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		setFlash(c, "Please log in to access this page.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	token, err := c.Cookie(session.CookieName)
	if err == nil {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.logger.Error("Failed to destroy session", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	setFlash(c, "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/")
}
