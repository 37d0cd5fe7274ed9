package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pH-1491/Video-Backend/internal/engagement"
	"github.com/pH-1491/Video-Backend/internal/media"
	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// fakeVerifier accepts tokens of the form "token-<userID>".
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (string, error) {
	if userID, ok := strings.CutPrefix(token, "token-"); ok && userID != "" {
		return userID, nil
	}
	return "", errors.New("invalid token")
}

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByLogin(_ context.Context, identifier string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == identifier || user.Username == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdateAccount(ctx context.Context, id, fullName, email string) (models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.FullName = fullName
	user.Email = email
	s.users[id] = user
	return user, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Password = passwordHash
	s.users[id] = user
	return nil
}

func (s *fakeUserStore) UpdateAvatar(ctx context.Context, id, url string) (models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.AvatarURL = url
	s.users[id] = user
	return user, nil
}

func (s *fakeUserStore) UpdateCoverImage(ctx context.Context, id, url string) (models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.CoverImage = url
	s.users[id] = user
	return user, nil
}

func (s *fakeUserStore) RecordWatch(ctx context.Context, userID, videoID string) error {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	history := []string{videoID}
	for _, id := range user.WatchHistory {
		if id != videoID {
			history = append(history, id)
		}
	}
	user.WatchHistory = history
	s.users[userID] = user
	return nil
}

func (s *fakeUserStore) WatchHistory(ctx context.Context, userID string) ([]models.VideoWithOwner, error) {
	if _, err := s.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return nil, nil
}

type fakeVideoStore struct {
	videos map[string]models.Video

	lastFilter models.VideoFilter
	lastPage   models.Page
	page       models.VideoPage
}

func newFakeVideoStore(videos ...models.Video) *fakeVideoStore {
	s := &fakeVideoStore{videos: make(map[string]models.Video)}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *fakeVideoStore) FindByIDWithOwner(ctx context.Context, id string) (models.VideoWithOwner, error) {
	video, err := s.FindByID(ctx, id)
	if err != nil {
		return models.VideoWithOwner{}, err
	}
	return models.VideoWithOwner{Video: video}, nil
}

func (s *fakeVideoStore) List(_ context.Context, filter models.VideoFilter, page models.Page) (models.VideoPage, error) {
	s.lastFilter = filter
	s.lastPage = page
	result := s.page
	result.Page = page.Number
	return result, nil
}

func (s *fakeVideoStore) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	var owned []models.Video
	for _, v := range s.videos {
		if v.OwnerID == ownerID {
			owned = append(owned, v)
		}
	}
	return owned, nil
}

func (s *fakeVideoStore) Update(ctx context.Context, video models.Video) error {
	if _, err := s.FindByID(ctx, video.ID); err != nil {
		return err
	}
	s.videos[video.ID] = video
	return nil
}

func (s *fakeVideoStore) SetPublished(ctx context.Context, id string, published bool) error {
	video, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	video.IsPublished = published
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) IncrementViews(ctx context.Context, id string) error {
	video, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	video.Views++
	s.videos[id] = video
	return nil
}

func (s *fakeVideoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	delete(s.videos, id)
	return nil
}

type fakeCommentStore struct {
	comments map[string]models.Comment
	page     models.CommentPage
	lastPage models.Page
}

func newFakeCommentStore(comments ...models.Comment) *fakeCommentStore {
	s := &fakeCommentStore{comments: make(map[string]models.Comment)}
	for _, c := range comments {
		s.comments[c.ID] = c
	}
	return s
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, _ string, page models.Page) (models.CommentPage, error) {
	s.lastPage = page
	result := s.page
	result.Page = page.Number
	return result, nil
}

func (s *fakeCommentStore) UpdateContent(ctx context.Context, id, content string) (models.Comment, error) {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *fakeCommentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	delete(s.comments, id)
	return nil
}

type fakeTweetStore struct {
	tweets map[string]models.Tweet
}

func newFakeTweetStore(tweets ...models.Tweet) *fakeTweetStore {
	s := &fakeTweetStore{tweets: make(map[string]models.Tweet)}
	for _, t := range tweets {
		s.tweets[t.ID] = t
	}
	return s
}

func (s *fakeTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *fakeTweetStore) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *fakeTweetStore) ListForUser(_ context.Context, ownerID string) ([]models.TweetWithOwner, error) {
	var owned []models.TweetWithOwner
	for _, t := range s.tweets {
		if t.OwnerID == ownerID {
			owned = append(owned, models.TweetWithOwner{Tweet: t})
		}
	}
	return owned, nil
}

func (s *fakeTweetStore) UpdateContent(ctx context.Context, id, content string) (models.Tweet, error) {
	tweet, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Tweet{}, err
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *fakeTweetStore) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	delete(s.tweets, id)
	return nil
}

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
}

func newFakePlaylistStore(playlists ...models.Playlist) *fakePlaylistStore {
	s := &fakePlaylistStore{playlists: make(map[string]models.Playlist)}
	for _, p := range playlists {
		s.playlists[p.ID] = p
	}
	return s
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) Detail(ctx context.Context, id string) (models.PlaylistDetail, error) {
	playlist, err := s.FindByID(ctx, id)
	if err != nil {
		return models.PlaylistDetail{}, err
	}
	return models.PlaylistDetail{Playlist: playlist}, nil
}

func (s *fakePlaylistStore) ListForUser(_ context.Context, ownerID string) ([]models.Playlist, error) {
	var owned []models.Playlist
	for _, p := range s.playlists {
		if p.OwnerID == ownerID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

func (s *fakePlaylistStore) Update(ctx context.Context, id, name, description string) (models.Playlist, error) {
	playlist, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	playlist.Name = name
	playlist.Description = description
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) AddVideo(ctx context.Context, id, videoID string) (models.Playlist, error) {
	playlist, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	for _, existing := range playlist.VideoIDs {
		if existing == videoID {
			return models.Playlist{}, repositories.ErrConflict
		}
	}
	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) RemoveVideo(ctx context.Context, id, videoID string) (models.Playlist, error) {
	playlist, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Playlist{}, err
	}
	var kept []string
	for _, existing := range playlist.VideoIDs {
		if existing != videoID {
			kept = append(kept, existing)
		}
	}
	playlist.VideoIDs = kept
	s.playlists[id] = playlist
	return playlist, nil
}

func (s *fakePlaylistStore) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	delete(s.playlists, id)
	return nil
}

// fakeEngagement delegates toggles to in-memory state and checks target
// existence against the provided id sets.
type fakeEngagement struct {
	users         map[string]bool
	videos        map[string]bool
	likes         map[string]bool
	subscriptions map[string]bool
	profile       models.ChannelProfile
}

func newFakeEngagement() *fakeEngagement {
	return &fakeEngagement{
		users:         make(map[string]bool),
		videos:        make(map[string]bool),
		likes:         make(map[string]bool),
		subscriptions: make(map[string]bool),
	}
}

func (f *fakeEngagement) ToggleLike(_ context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	if target == models.LikeTargetVideo && !f.videos[targetID] {
		return false, repositories.ErrNotFound
	}
	key := fmt.Sprintf("%s/%s/%s", target, targetID, userID)
	f.likes[key] = !f.likes[key]
	return f.likes[key], nil
}

func (f *fakeEngagement) ToggleSubscription(_ context.Context, channelID, subscriberID string) (bool, error) {
	if channelID == subscriberID {
		return false, engagement.ErrSelfSubscription
	}
	if !f.users[channelID] {
		return false, repositories.ErrNotFound
	}
	key := channelID + "/" + subscriberID
	f.subscriptions[key] = !f.subscriptions[key]
	return f.subscriptions[key], nil
}

func (f *fakeEngagement) LikedVideos(context.Context, string) ([]models.VideoWithOwner, error) {
	return nil, nil
}

func (f *fakeEngagement) ChannelSubscribers(_ context.Context, channelID string) ([]models.Profile, error) {
	if !f.users[channelID] {
		return nil, repositories.ErrNotFound
	}
	return nil, nil
}

func (f *fakeEngagement) SubscribedChannels(_ context.Context, subscriberID string) ([]models.Profile, error) {
	if !f.users[subscriberID] {
		return nil, repositories.ErrNotFound
	}
	return nil, nil
}

func (f *fakeEngagement) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	if f.profile.Username != username {
		return models.ChannelProfile{}, repositories.ErrNotFound
	}
	return f.profile, nil
}

type fakeStats struct {
	stats map[string]models.ChannelStats
}

func (f *fakeStats) ChannelStats(_ context.Context, channelID string) (models.ChannelStats, error) {
	stats, ok := f.stats[channelID]
	if !ok {
		return models.ChannelStats{}, repositories.ErrNotFound
	}
	return stats, nil
}

type fakeSessions struct {
	issued  int
	revoked []string
}

func (f *fakeSessions) Issue(_ context.Context, userID string) (models.AuthTokens, error) {
	f.issued++
	return models.AuthTokens{
		AccessToken:      "access-" + userID,
		AccessExpiresAt:  time.Now().Add(15 * time.Minute),
		RefreshToken:     "refresh-" + userID,
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

func (f *fakeSessions) Refresh(ctx context.Context, refreshToken string) (models.AuthTokens, error) {
	if userID, ok := strings.CutPrefix(refreshToken, "refresh-"); ok {
		return f.Issue(ctx, userID)
	}
	return models.AuthTokens{}, errors.New("unknown refresh token")
}

func (f *fakeSessions) Revoke(_ context.Context, refreshToken string) {
	f.revoked = append(f.revoked, refreshToken)
}

func (f *fakeSessions) RevokeAll(_ context.Context, userID string) {
	f.revoked = append(f.revoked, "all:"+userID)
}

type fakeMedia struct {
	uploads int
}

func (f *fakeMedia) UploadImage(_ context.Context, localPath, folder string) (string, error) {
	f.uploads++
	return "https://cdn.example.com/" + folder + "/stored", nil
}

func (f *fakeMedia) UploadVideo(_ context.Context, localPath string) (media.Asset, error) {
	f.uploads++
	return media.Asset{URL: "https://cdn.example.com/videos/stored", Duration: 30}, nil
}

type testEnv struct {
	users      *fakeUserStore
	videos     *fakeVideoStore
	comments   *fakeCommentStore
	tweets     *fakeTweetStore
	playlists  *fakePlaylistStore
	engagement *fakeEngagement
	stats      *fakeStats
	sessions   *fakeSessions
	media      *fakeMedia
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:      newFakeUserStore(),
		videos:     newFakeVideoStore(),
		comments:   newFakeCommentStore(),
		tweets:     newFakeTweetStore(),
		playlists:  newFakePlaylistStore(),
		engagement: newFakeEngagement(),
		stats:      &fakeStats{stats: make(map[string]models.ChannelStats)},
		sessions:   &fakeSessions{},
		media:      &fakeMedia{},
	}

	env.router = NewRouter(Dependencies{
		Users:      env.users,
		Videos:     env.videos,
		Comments:   env.comments,
		Tweets:     env.tweets,
		Playlists:  env.playlists,
		Engagement: env.engagement,
		Stats:      env.stats,
		Sessions:   env.sessions,
		Verifier:   fakeVerifier{},
		Media:      env.media,
		UploadDir:  t.TempDir(),
	})

	return env
}

func (env *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
