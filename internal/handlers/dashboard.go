package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// DashboardHandler implements channel dashboard endpoints.
type DashboardHandler struct {
	StatsProvider StatsProvider
	Users         UserStore
	VideoStore    VideoStore
}

// Stats handles GET /api/v1/dashboard/stats/{channelId} requests. Like
// totals count only likes on the channel's own videos.
func (h DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelId")

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	stats, err := h.StatsProvider.ChannelStats(ctx, channelID)
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched")
}

// Videos handles GET /api/v1/dashboard/videos/{channelId} requests.
func (h DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelId")

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	videos, err := h.VideoStore.ListByOwner(ctx, channelID)
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondData(ctx, w, http.StatusOK, videos, "channel videos fetched")
}
