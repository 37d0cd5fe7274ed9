package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pH-1491/Video-Backend/internal/models"
)

func TestCreateTweet(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/tweets", "token-user-1", `{"content":"hello world"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Tweet `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OwnerID != "user-1" {
		t.Fatalf("expected caller as owner, got %q", envelope.Data.OwnerID)
	}
}

func TestCreateTweetRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/tweets", "token-user-1", `{"content":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateTweetOwnershipOrder(t *testing.T) {
	env := newTestEnv(t)
	env.tweets.tweets["tweet-1"] = models.Tweet{ID: "tweet-1", Content: "original", OwnerID: "user-1"}

	rec := env.do(t, http.MethodPatch, "/api/v1/tweets/ghost", "token-user-2", `{"content":"edited"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tweet, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/api/v1/tweets/tweet-1", "token-user-2", `{"content":"edited"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/api/v1/tweets/tweet-1", "token-user-1", `{"content":"edited"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.tweets.tweets["tweet-1"].Content != "edited" {
		t.Fatalf("expected content update, got %q", env.tweets.tweets["tweet-1"].Content)
	}
}

func TestDeleteTweet(t *testing.T) {
	env := newTestEnv(t)
	env.tweets.tweets["tweet-1"] = models.Tweet{ID: "tweet-1", OwnerID: "user-1"}

	rec := env.do(t, http.MethodDelete, "/api/v1/tweets/tweet-1", "token-user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := env.tweets.tweets["tweet-1"]; ok {
		t.Fatal("expected tweet removed")
	}
}

func TestListTweetsForUser(t *testing.T) {
	env := newTestEnv(t)
	env.tweets.tweets["tweet-1"] = models.Tweet{ID: "tweet-1", OwnerID: "user-1"}
	env.tweets.tweets["tweet-2"] = models.Tweet{ID: "tweet-2", OwnerID: "user-2"}

	rec := env.do(t, http.MethodGet, "/api/v1/tweets/user/user-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Items      []models.TweetWithOwner `json:"items"`
			TotalCount int                     `json:"totalCount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalCount != 1 {
		t.Fatalf("expected one tweet, got %d", envelope.Data.TotalCount)
	}
}
