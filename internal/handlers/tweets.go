package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// TweetHandler implements tweet endpoints.
type TweetHandler struct {
	Tweets  TweetStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/tweets requests.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		Content:   content,
		OwnerID:   callerID(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		respondStoreError(ctx, w, err, "tweet not found")
		return
	}

	respondData(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ListForUser handles GET /api/v1/tweets/user/{userId} requests.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	tweets, err := h.Tweets.ListForUser(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if tweets == nil {
		tweets = []models.TweetWithOwner{}
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"items":      tweets,
		"totalCount": len(tweets),
	}, "tweets fetched")
}

// Update handles PATCH /api/v1/tweets/{tweetId} requests.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tweetID := chi.URLParam(r, "tweetId")

	if !h.ownsTweet(w, r, tweetID) {
		return
	}

	content, ok := decodeContent(w, r)
	if !ok {
		return
	}

	tweet, err := h.Tweets.UpdateContent(ctx, tweetID, content)
	if err != nil {
		respondStoreError(ctx, w, err, "tweet not found")
		return
	}

	respondData(ctx, w, http.StatusOK, tweet, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId} requests.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tweetID := chi.URLParam(r, "tweetId")

	if !h.ownsTweet(w, r, tweetID) {
		return
	}

	if err := h.Tweets.Delete(ctx, tweetID); err != nil {
		respondStoreError(ctx, w, err, "tweet not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) ownsTweet(w http.ResponseWriter, r *http.Request, tweetID string) bool {
	ctx := r.Context()

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet not found")
		} else {
			respondStoreError(ctx, w, err, "tweet not found")
		}
		return false
	}

	if tweet.OwnerID != callerID(ctx) {
		respondError(ctx, w, http.StatusForbidden, "not the tweet owner")
		return false
	}

	return true
}

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
