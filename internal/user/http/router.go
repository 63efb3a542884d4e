package http

import (
	"context"
	"net/http"
	"time"

	commonerrors "github.com/messagely/backend/internal/common/errors"
	commonhttp "github.com/messagely/backend/internal/common/http"
	"github.com/messagely/backend/internal/common/jwtverify"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/user/service"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userSummaryResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type userProfileResponse struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type Handler struct {
	directory *service.Directory
	errors    *commonhttp.ErrorHandler
	log       *logger.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	timeout   time.Duration
}

func NewHandler(
	directory *service.Directory,
	jwtSecret string,
	tokenTTL time.Duration,
	timeout time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		directory: directory,
		errors:    commonhttp.NewErrorHandler(log),
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		timeout:   timeout,
	}
}

// Register mounts the auth and user routes. auth wraps the routes that
// require an authenticated acting user.
func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.Handle("GET /api/users", auth(http.HandlerFunc(h.list)))
	mux.Handle("GET /api/users/{username}", auth(http.HandlerFunc(h.get)))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.directory.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	token, err := h.issueToken(user.Username)
	if err != nil {
		h.log.Errorf("register failed: token issue error: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ok, err := h.directory.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	if !ok {
		h.log.WithFields(ctx, logger.Fields{
			"username": req.Username,
			"action":   "login_invalid_credentials",
		}).Warn("login failed: invalid credentials")
		commonhttp.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}

	if err := h.directory.TouchLogin(ctx, req.Username); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	token, err := h.issueToken(req.Username)
	if err != nil {
		h.log.Errorf("login failed: token issue error: %v", err)
		commonhttp.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	summaries, err := h.directory.List(ctx)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	users := make([]userSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		users = append(users, userSummaryResponse{
			Username:  s.Username,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Phone:     s.Phone,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	claims, ok := jwtverify.FromContext(r.Context())
	if !ok || claims.Username != username {
		h.errors.HandleError(w, r, commonerrors.ErrUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.directory.Get(ctx, username)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]any{"user": userProfileResponse{
		Username:    profile.Username,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Phone:       profile.Phone,
		JoinAt:      profile.JoinedAt,
		LastLoginAt: profile.LastLoginAt,
	}})
}
