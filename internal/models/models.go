package models

import "time"

// User represents an account (and therefore a channel) on the platform.
// Password always holds the bcrypt hash; it never appears in API payloads.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	AvatarURL    string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the reduced projection of a user embedded in other resources.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Profile returns the reduced projection of the user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, FullName: u.FullName, Username: u.Username, Avatar: u.AvatarURL}
}

// ChannelProfile is a user viewed as a channel, with derived subscription data.
type ChannelProfile struct {
	Profile
	Email             string `json:"email"`
	CoverImage        string `json:"coverImage"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// Video holds the metadata for one uploaded video. The media itself lives in
// the object store; VideoURL and Thumbnail point at it.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoWithOwner pairs a video with its owner's reduced projection.
type VideoWithOwner struct {
	Video
	Owner Profile `json:"owner"`
}

// Comment is a user's comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentWithOwner pairs a comment with its author's reduced projection.
type CommentWithOwner struct {
	Comment
	Owner Profile `json:"owner"`
}

// LikeTarget discriminates what kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like is an engagement edge from a user to exactly one target entity.
// At most one like exists per (liked-by, target) pair; state is toggled,
// never stored as a counter.
type Like struct {
	ID        string     `json:"id"`
	Target    LikeTarget `json:"target"`
	TargetID  string     `json:"targetId"`
	LikedBy   string     `json:"likedBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Subscription is an engagement edge from a subscriber to a channel.
// The pair is unique and a channel cannot subscribe to itself.
type Subscription struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channelId"`
	SubscriberID string    `json:"subscriberId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Playlist is an ordered, duplicate-free collection of video ids.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	VideoIDs    []string  `json:"videoIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistDetail resolves a playlist's owner and video references.
type PlaylistDetail struct {
	Playlist
	Owner  Profile `json:"owner"`
	Videos []Video `json:"videos"`
}

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TweetWithOwner pairs a tweet with its author's reduced projection.
type TweetWithOwner struct {
	Tweet
	Owner Profile `json:"owner"`
}

// ChannelStats aggregates derived counters for a channel's dashboard.
// Every figure is computed by counting records at read time.
type ChannelStats struct {
	SubscriberCount int64 `json:"subscriberCount"`
	VideoCount      int64 `json:"videoCount"`
	ViewTotal       int64 `json:"viewTotal"`
	LikeTotal       int64 `json:"likeTotal"`
}

// AuthTokens groups the bearer credentials issued to authenticated users.
type AuthTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
