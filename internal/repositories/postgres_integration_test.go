package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pH-1491/Video-Backend/internal/auth"
	"github.com/pH-1491/Video-Backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateFindAndConflicts(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	dupUsername := user
	dupUsername.ID = uuid.NewString()
	dupUsername.Email = "other@example.com"
	if err := repo.Create(ctx, dupUsername); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	dupEmail := user
	dupEmail.ID = uuid.NewString()
	dupEmail.Username = "someone-else"
	if err := repo.Create(ctx, dupEmail); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	byEmail, err := repo.FindByLogin(ctx, user.Email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected user %s by email, got %s", user.ID, byEmail.ID)
	}

	byUsername, err := repo.FindByLogin(ctx, "ALICE")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byUsername.ID != user.ID {
		t.Fatalf("expected case-insensitive username lookup, got %s", byUsername.ID)
	}

	updated, err := repo.UpdateAccount(ctx, user.ID, "Alice Updated", "alice-new@example.com")
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if updated.FullName != "Alice Updated" || updated.Email != "alice-new@example.com" {
		t.Fatalf("expected updated account, got %+v", updated)
	}

	if err := repo.UpdatePassword(ctx, uuid.NewString(), "hash"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing user, got %v", err)
	}
}

func TestPostgresUserRepository_WatchHistoryOrderAndDanglingIDs(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)

	owner := createTestUser(t, userRepo, "owner")
	viewer := createTestUser(t, userRepo, "viewer")

	first := createTestVideo(t, videoRepo, owner.ID, "First", 0, true)
	second := createTestVideo(t, videoRepo, owner.ID, "Second", 0, true)

	for _, videoID := range []string{first.ID, second.ID, first.ID} {
		if err := userRepo.RecordWatch(ctx, viewer.ID, videoID); err != nil {
			t.Fatalf("record watch %s: %v", videoID, err)
		}
	}

	history, err := userRepo.WatchHistory(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("watch history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Fatalf("expected rewatch to move video first, got [%s %s]", history[0].ID, history[1].ID)
	}

	if err := videoRepo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	history, err = userRepo.WatchHistory(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("watch history after delete: %v", err)
	}
	if len(history) != 1 || history[0].ID != first.ID {
		t.Fatalf("expected deleted video dropped from history, got %+v", history)
	}

	if _, err := userRepo.WatchHistory(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestPostgresVideoRepository_ListPaginationAndVisibility(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)

	owner := createTestUser(t, userRepo, "owner")

	for i := 0; i < 12; i++ {
		createTestVideo(t, videoRepo, owner.ID, fmt.Sprintf("Video %02d", i), int64(i), true)
	}
	createTestVideo(t, videoRepo, owner.ID, "Draft", 0, false)

	filter := models.VideoFilter{SortBy: models.VideoSortViews, SortAsc: true}

	page, err := videoRepo.List(ctx, filter, models.Page{Number: 2, Size: 5})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(page.Items))
	}
	if page.TotalCount != 12 || page.TotalPages != 3 || page.Page != 2 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	if page.Items[0].Views != 5 || page.Items[4].Views != 9 {
		t.Fatalf("unexpected page window: first views %d, last views %d", page.Items[0].Views, page.Items[4].Views)
	}

	empty, err := videoRepo.List(ctx, filter, models.Page{Number: 4, Size: 5})
	if err != nil {
		t.Fatalf("list out-of-range page: %v", err)
	}
	if len(empty.Items) != 0 || empty.TotalCount != 12 {
		t.Fatalf("expected empty page with preserved total, got %+v", empty)
	}

	withDrafts, err := videoRepo.List(ctx, models.VideoFilter{OwnerID: owner.ID, IncludeUnpublished: true}, models.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("list with unpublished: %v", err)
	}
	if withDrafts.TotalCount != 13 {
		t.Fatalf("expected 13 videos including draft, got %d", withDrafts.TotalCount)
	}

	search, err := videoRepo.List(ctx, models.VideoFilter{Query: "video 07"}, models.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list with query: %v", err)
	}
	if search.TotalCount != 1 || search.Items[0].Title != "Video 07" {
		t.Fatalf("expected case-insensitive title match, got %+v", search)
	}
}

func TestPostgresEngagementRepository_ToggleLike(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	owner := createTestUser(t, userRepo, "owner")
	fan := createTestUser(t, userRepo, "fan")
	video := createTestVideo(t, videoRepo, owner.ID, "Liked", 0, true)

	liked, err := repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, fan.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatal("expected first toggle to like")
	}

	likedVideos, err := repo.LikedVideos(ctx, fan.ID)
	if err != nil {
		t.Fatalf("liked videos: %v", err)
	}
	if len(likedVideos) != 1 || likedVideos[0].ID != video.ID {
		t.Fatalf("expected one liked video, got %+v", likedVideos)
	}
	if likedVideos[0].Owner.Username != owner.Username {
		t.Fatalf("expected owner projection resolved, got %+v", likedVideos[0].Owner)
	}

	liked, err = repo.ToggleLike(ctx, models.LikeTargetVideo, video.ID, fan.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatal("expected second toggle to unlike")
	}

	likedVideos, err = repo.LikedVideos(ctx, fan.ID)
	if err != nil {
		t.Fatalf("liked videos after unlike: %v", err)
	}
	if len(likedVideos) != 0 {
		t.Fatalf("expected no liked videos, got %d", len(likedVideos))
	}

	// A like on a comment with the same id space never collides with the
	// video like.
	if _, err := repo.ToggleLike(ctx, models.LikeTargetComment, video.ID, fan.ID); err != nil {
		t.Fatalf("toggle comment like: %v", err)
	}
	likedVideos, err = repo.LikedVideos(ctx, fan.ID)
	if err != nil {
		t.Fatalf("liked videos after comment like: %v", err)
	}
	if len(likedVideos) != 0 {
		t.Fatalf("expected comment like excluded from liked videos, got %d", len(likedVideos))
	}
}

func TestPostgresEngagementRepository_ToggleSubscription(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	channel := createTestUser(t, userRepo, "channel")
	fan := createTestUser(t, userRepo, "fan")

	subscribed, err := repo.ToggleSubscription(ctx, channel.ID, fan.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !subscribed {
		t.Fatal("expected first toggle to subscribe")
	}

	subscribers, err := repo.ChannelSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("channel subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].ID != fan.ID {
		t.Fatalf("expected fan as only subscriber, got %+v", subscribers)
	}

	channels, err := repo.SubscribedChannels(ctx, fan.ID)
	if err != nil {
		t.Fatalf("subscribed channels: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != channel.ID {
		t.Fatalf("expected channel as only subscription, got %+v", channels)
	}

	subscribed, err = repo.ToggleSubscription(ctx, channel.ID, fan.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if subscribed {
		t.Fatal("expected second toggle to unsubscribe")
	}

	subscribers, err = repo.ChannelSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("channel subscribers after unsubscribe: %v", err)
	}
	if len(subscribers) != 0 {
		t.Fatalf("expected no subscribers, got %d", len(subscribers))
	}
}

func TestPostgresEngagementRepository_ChannelStatsScoping(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	channelA := createTestUser(t, userRepo, "channel-a")
	channelB := createTestUser(t, userRepo, "channel-b")
	fan := createTestUser(t, userRepo, "fan")

	videoA := createTestVideo(t, videoRepo, channelA.ID, "A", 100, true)
	createTestVideo(t, videoRepo, channelA.ID, "A draft", 50, false)
	videoB := createTestVideo(t, videoRepo, channelB.ID, "B", 7, true)

	for _, videoID := range []string{videoA.ID, videoB.ID} {
		if _, err := repo.ToggleLike(ctx, models.LikeTargetVideo, videoID, fan.ID); err != nil {
			t.Fatalf("toggle like on %s: %v", videoID, err)
		}
	}
	if _, err := repo.ToggleSubscription(ctx, channelA.ID, fan.ID); err != nil {
		t.Fatalf("toggle subscription: %v", err)
	}

	stats, err := repo.ChannelStats(ctx, channelA.ID)
	if err != nil {
		t.Fatalf("channel stats: %v", err)
	}
	if stats.SubscriberCount != 1 {
		t.Fatalf("expected 1 subscriber, got %d", stats.SubscriberCount)
	}
	if stats.VideoCount != 2 || stats.ViewTotal != 150 {
		t.Fatalf("expected 2 videos with 150 views, got %d/%d", stats.VideoCount, stats.ViewTotal)
	}
	if stats.LikeTotal != 1 {
		t.Fatalf("expected only the like on channel A's video counted, got %d", stats.LikeTotal)
	}
}

func TestPostgresEngagementRepository_ChannelProfile(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	channel := createTestUser(t, userRepo, "channel")
	fan := createTestUser(t, userRepo, "fan")

	if _, err := repo.ToggleSubscription(ctx, channel.ID, fan.ID); err != nil {
		t.Fatalf("toggle subscription: %v", err)
	}

	profile, err := repo.ChannelProfile(ctx, "CHANNEL", fan.ID)
	if err != nil {
		t.Fatalf("channel profile: %v", err)
	}
	if profile.ID != channel.ID || profile.SubscriberCount != 1 || !profile.IsSubscribed {
		t.Fatalf("unexpected profile for subscriber view: %+v", profile)
	}

	anonymous, err := repo.ChannelProfile(ctx, "channel", "")
	if err != nil {
		t.Fatalf("channel profile anonymous: %v", err)
	}
	if anonymous.IsSubscribed {
		t.Fatal("expected anonymous viewer not subscribed")
	}

	if _, err := repo.ChannelProfile(ctx, "ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown username, got %v", err)
	}
}

func TestPostgresCommentRepository_ListForVideoPagination(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	repo := NewPostgresCommentRepository(testPool)

	owner := createTestUser(t, userRepo, "owner")
	video := createTestVideo(t, videoRepo, owner.ID, "Commented", 0, true)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		comment := models.Comment{
			ID:        uuid.NewString(),
			Content:   fmt.Sprintf("comment %d", i),
			VideoID:   video.ID,
			OwnerID:   owner.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, comment); err != nil {
			t.Fatalf("create comment %d: %v", i, err)
		}
	}

	page, err := repo.ListForVideo(ctx, video.ID, models.Page{Number: 2, Size: 3})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(page.Items) != 3 || page.TotalCount != 7 || page.TotalPages != 3 {
		t.Fatalf("unexpected comment page: %+v", page)
	}
	if page.Items[0].Owner.Username != owner.Username {
		t.Fatalf("expected owner projection resolved, got %+v", page.Items[0].Owner)
	}
}

func TestPostgresPlaylistRepository_VideoMembership(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	videoRepo := NewPostgresVideoRepository(testPool)
	repo := NewPostgresPlaylistRepository(testPool)

	owner := createTestUser(t, userRepo, "owner")
	first := createTestVideo(t, videoRepo, owner.ID, "First", 0, true)
	second := createTestVideo(t, videoRepo, owner.ID, "Second", 0, true)

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Name:        "Watch later",
		Description: "queue",
		OwnerID:     owner.ID,
		VideoIDs:    []string{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := repo.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	for _, videoID := range []string{first.ID, second.ID} {
		if _, err := repo.AddVideo(ctx, playlist.ID, videoID); err != nil {
			t.Fatalf("add video %s: %v", videoID, err)
		}
	}

	if _, err := repo.AddVideo(ctx, playlist.ID, first.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict adding duplicate video, got %v", err)
	}

	detail, err := repo.Detail(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("playlist detail: %v", err)
	}
	if len(detail.Videos) != 2 || detail.Videos[0].ID != first.ID || detail.Videos[1].ID != second.ID {
		t.Fatalf("expected videos resolved in insertion order, got %+v", detail.Videos)
	}
	if detail.Owner.Username != owner.Username {
		t.Fatalf("expected owner projection resolved, got %+v", detail.Owner)
	}

	updated, err := repo.RemoveVideo(ctx, playlist.ID, first.ID)
	if err != nil {
		t.Fatalf("remove video: %v", err)
	}
	if len(updated.VideoIDs) != 1 || updated.VideoIDs[0] != second.ID {
		t.Fatalf("expected only second video to remain, got %+v", updated.VideoIDs)
	}

	if err := repo.Delete(ctx, playlist.ID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}
	if _, err := repo.FindByID(ctx, playlist.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresSessionStore_SaveFindAndDelete(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, userRepo, "owner")

	store := NewPostgresSessionStore(testPool)
	expires := time.Now().UTC().Add(24 * time.Hour)
	session := auth.Session{
		RefreshToken: uuid.NewString(),
		UserID:       user.ID,
		ExpiresAt:    expires,
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.UserID != session.UserID || !timesClose(loaded.ExpiresAt, expires, time.Millisecond) {
		t.Fatalf("unexpected session loaded: %+v", loaded)
	}

	rotated := session
	rotated.ExpiresAt = expires.Add(48 * time.Hour)
	if err := store.Save(ctx, rotated); err != nil {
		t.Fatalf("update session: %v", err)
	}

	loaded, err = store.Find(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("find session after update: %v", err)
	}
	if !timesClose(loaded.ExpiresAt, rotated.ExpiresAt, time.Millisecond) {
		t.Fatalf("expected updated expiry, got %v", loaded.ExpiresAt)
	}

	if err := store.Delete(ctx, session.RefreshToken); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.Find(ctx, session.RefreshToken); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}

	for i := 0; i < 2; i++ {
		fresh := auth.Session{RefreshToken: uuid.NewString(), UserID: user.ID, ExpiresAt: expires}
		if err := store.Save(ctx, fresh); err != nil {
			t.Fatalf("save session %d: %v", i, err)
		}
	}
	if err := store.DeleteForUser(ctx, user.ID); err != nil {
		t.Fatalf("delete sessions for user: %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE likes, subscriptions, playlists, comments, tweets, sessions, videos, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		FullName:  username + " Test",
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password-hash",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user %s: %v", username, err)
	}
	return user
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string, views int64, published bool) models.Video {
	t.Helper()
	now := time.Now().UTC()
	video := models.Video{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "about " + title,
		VideoURL:    "https://cdn.example.com/videos/" + title,
		Thumbnail:   "https://cdn.example.com/thumbnails/" + title,
		Duration:    12.5,
		Views:       views,
		IsPublished: published,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(context.Background(), video); err != nil {
		t.Fatalf("create test video %s: %v", title, err)
	}
	return video
}

func timesClose(a, b time.Time, delta time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
