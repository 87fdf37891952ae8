package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler struct to encapsulate HTTP handling logic
type Handler struct {
	auth          *AuthService
	distributions *DistributionService
	notifier      *Notifier
	log           *slog.Logger
}

func NewHandler(auth *AuthService, distributions *DistributionService, notifier *Notifier, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, distributions: distributions, notifier: notifier, log: logger}
}

func RegisterRouters(mux *chi.Mux, handler *Handler, allowedOrigins []string) {
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logger) // Add logging middleware
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Post("/register", handler.Register)
	mux.Post("/login", handler.Login)
	mux.Post("/distribution", handler.CreateDistribution)
	mux.Get("/distributions/{userId}", handler.ListDistributions)
	mux.Post("/send-distribution-email", handler.SendDistributionEmail)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentialsRequest) validForRegister() bool {
	return c.Username != "" && c.Password != ""
}

type loginResponse struct {
	Auth  bool   `json:"auth"`
	Token string `json:"token"`
}

type distributionRequest struct {
	UserId       *int     `json:"user_id"`
	Amount       float64  `json:"amount"`
	Friends      []string `json:"friends"`
	Spender      string   `json:"spender"`
	Description  string   `json:"description"`
	Distribution Shares   `json:"distribution"`
}

type sendEmailRequest struct {
	Friends      []string                 `json:"friends"`
	FriendEmails []string                 `json:"friendEmails"`
	Distribution map[string]FriendSummary `json:"distribution"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.validForRegister() {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	err := h.auth.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrPasswordTooLong) {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "register failed", "username", req.Username, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	writeText(w, http.StatusOK, "User registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	// empty credentials fall through to the lookup: unknown users are 404
	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "login failed", "username", req.Username, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Auth: true, Token: token})
}

func (h *Handler) CreateDistribution(w http.ResponseWriter, r *http.Request) {
	var req distributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	_, err := h.distributions.Create(r.Context(), Distribution{
		UserId:       *req.UserId,
		Amount:       req.Amount,
		Friends:      req.Friends,
		Spender:      req.Spender,
		Description:  req.Description,
		Distribution: req.Distribution,
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "create distribution failed", "user_id", *req.UserId, "error", err)
		http.Error(w, "Failed to save distribution", http.StatusInternalServerError)
		return
	}

	writeText(w, http.StatusOK, "Distribution saved successfully")
}

func (h *Handler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	distributions, err := h.distributions.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list distributions failed", "user_id", userID, "error", err)
		http.Error(w, "Failed to fetch distributions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, distributions)
}

func (h *Handler) SendDistributionEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "Invalid request payload."})
		return
	}

	if req.Friends == nil || req.FriendEmails == nil || req.Distribution == nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "Missing required data."})
		return
	}

	err := h.notifier.SendDistributionEmails(r.Context(), req.Friends, req.FriendEmails, req.Distribution)
	if errors.Is(err, ErrMismatchedRecipients) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "friends and friendEmails must have the same length."})
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to send emails", "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Error: "Failed to send emails."})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Emails sent successfully."})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
