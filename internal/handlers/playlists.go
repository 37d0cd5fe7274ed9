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

// PlaylistHandler implements playlist endpoints.
type PlaylistHandler struct {
	Playlists PlaylistStore
	Videos    VideoStore
	NowFunc   func() time.Time
}

// Create handles POST /api/v1/playlist requests.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     callerID(ctx),
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// Get handles GET /api/v1/playlist/{playlistId} requests, resolving the
// playlist's videos and owner projection.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "playlistId")

	detail, err := h.Playlists.Detail(ctx, playlistID)
	if err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, detail, "playlist fetched")
}

// Update handles PATCH /api/v1/playlist/{playlistId} requests.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "playlistId")

	if _, ok := h.ownedPlaylist(w, r, playlistID); !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return
	}

	playlist, err := h.Playlists.Update(ctx, playlistID, name, strings.TrimSpace(req.Description))
	if err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist updated")
}

// Delete handles DELETE /api/v1/playlist/{playlistId} requests.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "playlistId")

	if _, ok := h.ownedPlaylist(w, r, playlistID); !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlistID); err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "playlist deleted")
}

// AddVideo handles PATCH /api/v1/playlist/add/{videoId}/{playlistId}
// requests. Adding a video twice is a conflict.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")
	playlistID := chi.URLParam(r, "playlistId")

	if _, ok := h.ownedPlaylist(w, r, playlistID); !ok {
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	playlist, err := h.Playlists.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "video already in playlist")
			return
		}
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "video added to playlist")
}

// RemoveVideo handles PATCH /api/v1/playlist/remove/{videoId}/{playlistId} requests.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")
	playlistID := chi.URLParam(r, "playlistId")

	if _, ok := h.ownedPlaylist(w, r, playlistID); !ok {
		return
	}

	playlist, err := h.Playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "playlist not found")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "video removed from playlist")
}

// ListForUser handles GET /api/v1/playlist/user/{userId} requests.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	playlists, err := h.Playlists.ListForUser(ctx, userID)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	respondData(ctx, w, http.StatusOK, playlists, "playlists fetched")
}

func (h PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request, playlistID string) (models.Playlist, bool) {
	ctx := r.Context()

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
		} else {
			respondStoreError(ctx, w, err, "playlist not found")
		}
		return models.Playlist{}, false
	}

	if playlist.OwnerID != callerID(ctx) {
		respondError(ctx, w, http.StatusForbidden, "not the playlist owner")
		return models.Playlist{}, false
	}

	return playlist, true
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
