package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findoc-backend/internal/shared/auth"
	"findoc-backend/internal/shared/server/middleware"
	"findoc-backend/internal/shared/server/respond"
)

// cookieMaxAge matches the token TTL.
const cookieMaxAge = int(auth.TokenTTL / time.Second)

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc       *Service
	JWTSecret []byte
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, jwtSecret []byte) *Handler {
	return &Handler{Svc: svc, JWTSecret: jwtSecret}
}

// RegisterRoutes attaches auth routes to the router group. Signup and login
// are public; profile requires the auth gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", h.login)
	rg.GET("/profile", requireAuth, h.profile)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body.", err)
		return
	}

	user, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Name, email and password are required.", err)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "Email already registered.", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "Server error.", err)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body.", err)
		return
	}

	user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "Email and password are required.", err)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "Invalid credentials", err)
		default:
			respond.Error(c, http.StatusInternalServerError, "Server error.", err)
		}
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.JWTSecret)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Server error.", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, cookieMaxAge, "/", "", false, true)

	respond.OK(c, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *Handler) profile(c *gin.Context) {
	respond.OK(c, gin.H{
		"user": gin.H{
			"id":    middleware.UserIDFromContext(c),
			"email": middleware.UserEmailFromContext(c),
		},
	})
}
