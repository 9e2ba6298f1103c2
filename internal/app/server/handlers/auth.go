package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"snapland/internal/core/domain"
	"snapland/internal/core/services"
	"snapland/pkg/middleware"
)

type AuthHandler struct {
	userSvc *services.UserService
}

func NewAuthHandler(u *services.UserService) *AuthHandler {
	return &AuthHandler{userSvc: u}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, token, err := h.userSvc.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, domain.ErrInvalidCredentials):
			http.Error(w, "email and password are required", http.StatusBadRequest)
		default:
			log.ErrorContext(r.Context(), "auth handler - register failed", "email", req.Email)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":       token,
		"userId":      user.ID,
		"displayName": user.DisplayName,
	})
	log.InfoContext(r.Context(), "auth handler - register success", "user_id", user.ID.String())
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log, _ := r.Context().Value(middleware.LoggerKey).(*slog.Logger)
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, token, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		log.ErrorContext(r.Context(), "auth handler - login failed", "email", req.Email)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":       token,
		"userId":      user.ID,
		"displayName": user.DisplayName,
	})
	log.InfoContext(r.Context(), "auth handler - login success", "user_id", user.ID.String())
}
