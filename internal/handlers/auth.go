package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
	"github.com/emilythestrangee/social-feed/backend/internal/store"
)

type AuthHandler struct {
	users  store.Users
	issuer *auth.JWTProvider
}

func NewAuthHandler(users store.Users, issuer *auth.JWTProvider) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer}
}

// Enabled reports whether local sign-up and sign-in are available.
func (h *AuthHandler) Enabled() bool {
	return h.issuer != nil
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, err, "hash password"))
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
	}
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			err = apperr.New(apperr.Conflict, "Email already registered")
		}
		respondError(c, err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, err, "issue token"))
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:   token,
		User:    user,
		Message: "User registered successfully",
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	invalid := apperr.New(apperr.Unauthenticated, "Invalid credentials")
	user, err := h.users.GetUserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			err = invalid
		}
		respondError(c, err)
		return
	}

	// externally managed users have no local password
	if user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, input.Password) {
		respondError(c, invalid)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, err, "issue token"))
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:   token,
		User:    *user,
		Message: "Login successful",
	})
}

// GetMe returns the current authenticated user. The user row is absent until
// the principal's first mutation.
func (h *AuthHandler) GetMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	resp := gin.H{"id": p.UserID, "email": p.Email, "user": nil}
	user, err := h.users.GetUser(c.Request.Context(), p.UserID)
	switch {
	case err == nil:
		resp["user"] = user
	case !apperr.Is(err, apperr.NotFound):
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
