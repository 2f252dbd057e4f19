package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vfmayliv/skidqi-admin-auth/src/middleware"
	"github.com/vfmayliv/skidqi-admin-auth/src/models"
	"github.com/vfmayliv/skidqi-admin-auth/src/services"
)

// Action selects the operation performed by the auth endpoint
type Action string

// Supported actions
const (
	ActionLogin  Action = "login"
	ActionVerify Action = "verify"
	ActionLogout Action = "logout"
)

// AuthRequest is the body of POST /admin/auth
type AuthRequest struct {
	Action   Action `json:"action"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// AuthResponse is the uniform envelope returned by the auth endpoint.
// The admin SPA branches on Success only, so every outcome — including
// failures — ships as HTTP 200 with the result in-band.
type AuthResponse struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error,omitempty"`
	Token   string                     `json:"token,omitempty"`
	User    *models.AdminAccountPublic `json:"user,omitempty"`
}

// Client-facing error strings. Unknown-username and wrong-password share one
// string on purpose; verify failures collapse to a single message to avoid
// an oracle.
const (
	msgRateLimited    = "Too many login attempts. Please try again later."
	msgInvalidCreds   = "Invalid username or password"
	msgAccountLocked  = "Account is temporarily locked. Please try again later."
	msgSessionInvalid = "Invalid or expired session"
	msgInvalidAction  = "Invalid action"
	msgInvalidBody    = "Invalid request body"
	msgInternalError  = "Internal server error"
)

// AuthHandler handles the admin authentication endpoint
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleAuth dispatches POST /admin/auth on the request action
func (ah *AuthHandler) HandleAuth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgInvalidBody})
		return
	}

	ip, userAgent := clientIdentity(c)

	switch req.Action {
	case ActionLogin:
		ah.handleLogin(c, req, ip, userAgent)
	case ActionVerify:
		ah.handleVerify(c, req)
	case ActionLogout:
		ah.handleLogout(c, req, ip, userAgent)
	default:
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgInvalidAction})
	}
}

func (ah *AuthHandler) handleLogin(c *gin.Context, req AuthRequest, ip, userAgent string) {
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgInvalidCreds})
		return
	}

	result, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password, ip, userAgent)
	if err != nil {
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: loginErrorMessage(c, err)})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User,
	})
}

func (ah *AuthHandler) handleVerify(c *gin.Context, req AuthRequest) {
	account, err := ah.authService.Verify(c.Request.Context(), req.Token)
	if err != nil {
		if !errors.Is(err, services.ErrSessionInvalid) && !errors.Is(err, services.ErrUserNotFound) {
			logInternalError(c, err)
			c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgInternalError})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgSessionInvalid})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Success: true, User: account})
}

func (ah *AuthHandler) handleLogout(c *gin.Context, req AuthRequest, ip, userAgent string) {
	if err := ah.authService.Logout(c.Request.Context(), req.Token, ip, userAgent); err != nil {
		logInternalError(c, err)
		c.JSON(http.StatusOK, AuthResponse{Success: false, Error: msgInternalError})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Success: true})
}

// HandleStatus returns the account verified by AdminAuthMiddleware
func (ah *AuthHandler) HandleStatus(c *gin.Context) {
	account, exists := c.Get(middleware.AdminAccountKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, AuthResponse{Success: false, Error: msgSessionInvalid})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Success: true,
		User:    account.(*models.AdminAccountPublic),
	})
}

// loginErrorMessage maps service errors to client-safe strings
func loginErrorMessage(c *gin.Context, err error) string {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		return msgRateLimited
	case errors.Is(err, services.ErrInvalidCredentials):
		return msgInvalidCreds
	case errors.Is(err, services.ErrAccountLocked):
		return msgAccountLocked
	default:
		logInternalError(c, err)
		return msgInternalError
	}
}

// clientIdentity extracts the request origin for auditing and rate limiting.
// Both headers default to "unknown" rather than empty.
func clientIdentity(c *gin.Context) (ip, userAgent string) {
	ip = c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	userAgent = c.GetHeader("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}
	return ip, userAgent
}

// logInternalError records an infrastructure failure without leaking it
func logInternalError(c *gin.Context, err error) {
	log.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Msg("auth request failed")
}
