package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/bloglist/internal/server/service"
	"github.com/iudanet/bloglist/pkg/api"
)

// UserHandler обрабатывает регистрацию, список пользователей и вход
type UserHandler struct {
	logger *slog.Logger
	users  *service.UserService
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// Create обрабатывает POST /api/v1/users
// Регистрация нового пользователя
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(ctx, req.Username, req.Name, req.Password)
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, api.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		Blogs:     []string{},
	}, http.StatusCreated)
}

// List обрабатывает GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	resp := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, api.UserResponse{
			ID:        u.User.ID,
			Username:  u.User.Username,
			Name:      u.User.Name,
			CreatedAt: u.User.CreatedAt,
			Blogs:     u.PostIDs,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Login обрабатывает POST /api/v1/login
// Аутентификация пользователя, в ответе токен сессии
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, api.LoginResponse{
		Token:    res.Token,
		Username: res.Username,
		Name:     res.Name,
	}, http.StatusOK)
}
