package blog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/audit"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/csrf"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/platform/httpx"
	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// RepositoryPort defines data access methods for posts.
type RepositoryPort interface {
	ListPosts(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, post Post) (Post, error)
	DeletePost(ctx context.Context, id int64) error
}

// Handler manages blog administration. Access rides on the "blog" menu
// grant; post content itself is plain CRUD.
type Handler struct {
	logger    *slog.Logger
	repo      RepositoryPort
	gate      rbac.Middleware
	csrf      *csrf.Manager
	recorder  *audit.Recorder
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort, gate rbac.Middleware, csrfManager *csrf.Manager, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:    logger,
		repo:      repo,
		gate:      gate,
		csrf:      csrfManager,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers blog admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireMenu("blog"))
		r.Get("/", h.listPosts)
		r.Group(func(r chi.Router) {
			r.Use(csrf.Require(h.csrf, h.logger))
			r.Post("/", h.createPost)
			r.Delete("/{id}", h.deletePost)
		})
	})
}

type listResponse struct {
	Success bool   `json:"success"`
	Posts   []Post `json:"posts"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context())
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Success: true, Posts: posts})
}

type createPostRequest struct {
	Slug      string `json:"slug" validate:"required"`
	TitleEn   string `json:"title_en" validate:"required"`
	TitleAr   string `json:"title_ar"`
	BodyEn    string `json:"body_en"`
	BodyAr    string `json:"body_ar"`
	Published bool   `json:"published"`
}

type postResponse struct {
	Success bool `json:"success"`
	Post    Post `json:"post"`
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Slug and English title are required")
		return
	}

	post, err := h.repo.CreatePost(r.Context(), Post{
		Slug:      req.Slug,
		TitleEn:   req.TitleEn,
		TitleAr:   req.TitleAr,
		BodyEn:    req.BodyEn,
		BodyAr:    req.BodyAr,
		Published: req.Published,
	})
	if err != nil {
		h.logger.Error("create post", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, "create_post", post.ID, "created post "+post.Slug)
	httpx.JSON(w, http.StatusOK, postResponse{Success: true, Post: post})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	if err := h.repo.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.Error("delete post", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.audit(r, "delete_post", id, "deleted post")
	httpx.OK(w)
}

func (h *Handler) audit(r *http.Request, action string, targetID int64, description string) {
	actor := rbac.UserFromContext(r.Context())
	if actor == nil {
		return
	}
	ip, ua := audit.Provenance(r)
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:     actor.ID,
		Action:      action,
		TargetType:  "blog_post",
		TargetID:    targetID,
		Description: description,
		IP:          ip,
		UserAgent:   ua,
	})
}
