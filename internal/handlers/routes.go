package handlers

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers into a chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	health := HealthHandler{}
	users := UserHandler{
		Users:      deps.Users,
		Videos:     deps.Videos,
		Sessions:   deps.Sessions,
		Engagement: deps.Engagement,
		Media:      deps.Media,
		UploadDir:  deps.UploadDir,
	}
	videos := VideoHandler{Videos: deps.Videos, Media: deps.Media, UploadDir: deps.UploadDir}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos}
	likes := LikeHandler{Engagement: deps.Engagement}
	subscriptions := SubscriptionHandler{Engagement: deps.Engagement}
	playlists := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos}
	tweets := TweetHandler{Tweets: deps.Tweets}
	dashboard := DashboardHandler{StatsProvider: deps.Stats, Users: deps.Users, VideoStore: deps.Videos}

	requireAuth := RequireAuth(deps.Verifier)
	optionalAuth := OptionalAuth(deps.Verifier)
	credentialLimit := RateLimit(deps.CredentialLimiter, "credentials")

	r := chi.NewRouter()
	r.Get("/healthz", health.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(credentialLimit).Post("/register", users.Register)
			r.With(credentialLimit).Post("/login", users.Login)
			r.Post("/refresh-token", users.RefreshToken)
			r.With(optionalAuth).Get("/c/{username}", users.ChannelProfile)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", users.Logout)
				r.With(credentialLimit).Post("/change-password", users.ChangePassword)
				r.Get("/current", users.Current)
				r.Patch("/update-account", users.UpdateAccount)
				r.Patch("/avatar", users.UpdateAvatar)
				r.Patch("/cover-image", users.UpdateCoverImage)
				r.Get("/history", users.WatchHistory)
				r.Post("/history/{videoId}", users.RecordWatch)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.With(optionalAuth).Get("/", videos.List)
			r.With(optionalAuth).Get("/{videoId}", videos.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", videos.Publish)
				r.Patch("/{videoId}", videos.Update)
				r.Delete("/{videoId}", videos.Delete)
				r.Patch("/toggle/publish/{videoId}", videos.TogglePublish)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", comments.List)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/{videoId}", comments.Create)
				r.Patch("/c/{commentId}", comments.Update)
				r.Delete("/c/{commentId}", comments.Delete)
			})
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/toggle/v/{videoId}", likes.ToggleVideo)
			r.Post("/toggle/c/{commentId}", likes.ToggleComment)
			r.Post("/toggle/t/{tweetId}", likes.ToggleTweet)
			r.Get("/videos", likes.LikedVideos)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.With(requireAuth).Post("/c/{channelId}", subscriptions.Toggle)
			r.Get("/c/{channelId}", subscriptions.Subscribers)
			r.Get("/u/{subscriberId}", subscriptions.Subscribed)
		})

		r.Route("/playlist", func(r chi.Router) {
			r.Get("/{playlistId}", playlists.Get)
			r.Get("/user/{userId}", playlists.ListForUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", playlists.Create)
				r.Patch("/{playlistId}", playlists.Update)
				r.Delete("/{playlistId}", playlists.Delete)
				r.Patch("/add/{videoId}/{playlistId}", playlists.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", playlists.RemoveVideo)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/user/{userId}", tweets.ListForUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", tweets.Create)
				r.Patch("/{tweetId}", tweets.Update)
				r.Delete("/{tweetId}", tweets.Delete)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats/{channelId}", dashboard.Stats)
			r.Get("/videos/{channelId}", dashboard.Videos)
		})
	})

	return r
}
