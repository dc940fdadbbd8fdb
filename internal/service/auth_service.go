package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jsreddy/splitscenario/internal/auth"
	"github.com/jsreddy/splitscenario/internal/models"
)

// AuthService implements the signup and login endpoints.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse carries the session token and the public user record.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /api/auth/signup.
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Signup failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Server error during signup")
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
