package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// CommentHandler implements video comment endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

// List handles GET /api/v1/comments/{videoId} requests, newest first.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	query := r.URL.Query()
	page := models.NormalizedPage(atoiDefault(query.Get("page")), atoiDefault(query.Get("limit")))

	result, err := h.Comments.ListForVideo(ctx, videoID, page)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, commentPagePayload(result), "comments fetched")
}

// Create handles POST /api/v1/comments/{videoId} requests.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		VideoID:   videoID,
		OwnerID:   callerID(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/c/{commentId} requests.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := chi.URLParam(r, "commentId")

	if _, ok := h.ownedComment(w, r, commentID); !ok {
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	comment, err := h.Comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		respondStoreError(ctx, w, err, "comment not found")
		return
	}

	respondData(ctx, w, http.StatusOK, comment, "comment updated")
}

// Delete handles DELETE /api/v1/comments/c/{commentId} requests.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := chi.URLParam(r, "commentId")

	if _, ok := h.ownedComment(w, r, commentID); !ok {
		return
	}

	if err := h.Comments.Delete(ctx, commentID); err != nil {
		respondStoreError(ctx, w, err, "comment not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request, commentID string) (models.Comment, bool) {
	ctx := r.Context()

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
		} else {
			respondStoreError(ctx, w, err, "comment not found")
		}
		return models.Comment{}, false
	}

	if comment.OwnerID != callerID(ctx) {
		respondError(ctx, w, http.StatusForbidden, "not the comment owner")
		return models.Comment{}, false
	}

	return comment, true
}

func decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return "", false
	}

	return content, true
}

type contentRequest struct {
	Content string `json:"content"`
}

type commentListPayload struct {
	Items      []models.CommentWithOwner `json:"items"`
	TotalCount int64                     `json:"totalCount"`
	Page       int                       `json:"page"`
	TotalPages int                       `json:"totalPages"`
}

func commentPagePayload(page models.CommentPage) commentListPayload {
	items := page.Items
	if items == nil {
		items = []models.CommentWithOwner{}
	}
	return commentListPayload{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
