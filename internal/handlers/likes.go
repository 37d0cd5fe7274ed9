package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// LikeHandler implements like toggle and listing endpoints.
type LikeHandler struct {
	Engagement EngagementService
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId} requests.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, chi.URLParam(r, "videoId"), "video not found")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId} requests.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, chi.URLParam(r, "commentId"), "comment not found")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId} requests.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, chi.URLParam(r, "tweetId"), "tweet not found")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, targetID, notFound string) {
	ctx := r.Context()

	liked, err := h.Engagement.ToggleLike(ctx, target, targetID, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, notFound)
		return
	}

	message := "unliked"
	if liked {
		message = "liked"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

// LikedVideos handles GET /api/v1/likes/videos requests.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Engagement.LikedVideos(ctx, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if videos == nil {
		videos = []models.VideoWithOwner{}
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"items":      videos,
		"totalCount": len(videos),
	}, "liked videos fetched")
}
