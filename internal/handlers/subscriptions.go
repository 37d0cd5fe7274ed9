package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pH-1491/Video-Backend/internal/models"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Engagement EngagementService
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId} requests.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelId")

	subscribed, err := h.Engagement.ToggleSubscription(ctx, channelID, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	message := "unsubscribed"
	if subscribed {
		message = "subscribed"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId} requests.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channelID := chi.URLParam(r, "channelId")

	subscribers, err := h.Engagement.ChannelSubscribers(ctx, channelID)
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}
	if subscribers == nil {
		subscribers = []models.Profile{}
	}

	respondData(ctx, w, http.StatusOK, subscribers, "subscribers fetched")
}

// Subscribed handles GET /api/v1/subscriptions/u/{subscriberId} requests.
func (h SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscriberID := chi.URLParam(r, "subscriberId")

	channels, err := h.Engagement.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}
	if channels == nil {
		channels = []models.Profile{}
	}

	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched")
}
