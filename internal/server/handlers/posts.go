package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/bloglist/internal/models"
	"github.com/iudanet/bloglist/internal/server/service"
	"github.com/iudanet/bloglist/internal/stats"
	"github.com/iudanet/bloglist/pkg/api"
)

// PostHandler обрабатывает запросы к каталогу записей
type PostHandler struct {
	logger *slog.Logger
	posts  *service.PostService
}

// NewPostHandler создает новый handler для записей
func NewPostHandler(logger *slog.Logger, posts *service.PostService) *PostHandler {
	return &PostHandler{
		logger: logger,
		posts:  posts,
	}
}

// List обрабатывает GET /api/v1/blogs
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.posts.ListPosts(ctx)
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	resp := make([]api.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/blogs/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.posts.GetPost(ctx, r.PathValue("id"))
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, toPostResponse(post), http.StatusOK)
}

// Create обрабатывает POST /api/v1/blogs
// Владелец записи берется из токена, без токена запись создается без владельца
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode post request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.CreatePost(ctx, service.PostInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	}, GetToken(ctx))
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, toPostResponse(post), http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/blogs/{id}
// Лайки может менять любой, остальные поля только владелец
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	patch := models.PostPatch{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	}

	post, err := h.posts.UpdatePost(ctx, r.PathValue("id"), patch, GetToken(ctx))
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, toPostResponse(post), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/blogs/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.posts.DeletePost(ctx, r.PathValue("id"), GetToken(ctx)); err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats обрабатывает GET /api/v1/blogs/stats
func (h *PostHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.posts.Stats(ctx)
	if err != nil {
		writeError(ctx, h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, toStatsResponse(summary), http.StatusOK)
}

func toPostResponse(p *models.Post) api.PostResponse {
	return api.PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Author:    p.Author,
		URL:       p.URL,
		Likes:     p.Likes,
		User:      p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toStatsResponse(s stats.Summary) api.StatsResponse {
	resp := api.StatsResponse{
		Count:      s.Count,
		TotalLikes: s.TotalLikes,
	}
	if s.Favorite != nil {
		resp.Favorite = &api.FavoriteResponse{Title: s.Favorite.Title, Author: s.Favorite.Author, Likes: s.Favorite.Likes}
	}
	if s.MostBlogs != nil {
		resp.MostBlogs = &api.AuthorBlogsResponse{Author: s.MostBlogs.Author, Blogs: s.MostBlogs.Posts}
	}
	if s.MostLikes != nil {
		resp.MostLikes = &api.AuthorLikesResponse{Author: s.MostLikes.Author, Likes: s.MostLikes.Likes}
	}
	return resp
}
