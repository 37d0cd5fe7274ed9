package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pH-1491/Video-Backend/internal/auth"
	"github.com/pH-1491/Video-Backend/internal/logging"
	"github.com/pH-1491/Video-Backend/internal/media"
	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

const maxUploadMemory = 32 << 20

// UserHandler implements registration, authentication and account endpoints.
type UserHandler struct {
	Users      UserStore
	Videos     VideoStore
	Sessions   SessionManager
	Engagement EngagementService
	Media      MediaUploader
	UploadDir  string
	NowFunc    func() time.Time
}

// Register handles POST /api/v1/users/register requests. The payload is
// multipart: text fields plus a required avatar file and an optional cover
// image file.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "multipart form data is required")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName, email, username and password are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	avatarURL, err := h.storeFormImage(r, "avatar", "avatars")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, "avatar file is required")
			return
		}
		logger.Error("register avatar upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	coverURL, err := h.storeFormImage(r, "coverImage", "covers")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		logger.Error("register cover upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store cover image")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("register failed to hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		FullName:   fullName,
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		AvatarURL:  avatarURL,
		CoverImage: coverURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "username or email already registered")
			return
		}
		logger.Error("register failed to create user", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	respondData(ctx, w, http.StatusCreated, userResponse(user), "user registered")
}

// Login handles POST /api/v1/users/login requests. The caller may identify
// with either email or username.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Email))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Username))
	}
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "email or username and password are required")
		return
	}

	user, err := h.Users.FindByLogin(ctx, identifier)
	if err != nil {
		logger.Warn("login user lookup failed", "identifier", identifier, "error", err)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("failed to issue session", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondData(ctx, w, http.StatusOK, loginResponse{
		User:   userResponse(user),
		Tokens: tokens,
	}, "logged in")
}

// Logout handles POST /api/v1/users/logout requests, revoking every refresh
// session the caller holds.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Sessions.RevokeAll(ctx, callerID(ctx))
	respondData(ctx, w, http.StatusOK, nil, "logged out")
}

// RefreshToken handles POST /api/v1/users/refresh-token requests.
func (h UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondError(ctx, w, http.StatusBadRequest, "refresh token is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrRefreshTokenExpired) {
			respondError(ctx, w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		logger.Error("refresh failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "unable to refresh session")
		return
	}

	respondData(ctx, w, http.StatusOK, tokens, "session refreshed")
}

// ChangePassword handles POST /api/v1/users/change-password requests.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondError(ctx, w, http.StatusBadRequest, "oldPassword and newPassword are required")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	user, err := h.Users.FindByID(ctx, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "old password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("change password failed to hash", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	if err := h.Users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "password changed")
}

// Current handles GET /api/v1/users/current requests.
func (h UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, userResponse(user), "current user")
}

// UpdateAccount handles PATCH /api/v1/users/update-account requests.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if fullName == "" || email == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName and email are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid email address")
		return
	}

	user, err := h.Users.UpdateAccount(ctx, callerID(ctx), fullName, email)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, userResponse(user), "account updated")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar requests.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "avatars", h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image requests.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "covers", h.Users.UpdateCoverImage)
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, folder string, persist func(ctx context.Context, id, url string) (models.User, error)) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "multipart form data is required")
		return
	}

	url, err := h.storeFormImage(r, field, folder)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, field+" file is required")
			return
		}
		logger.Error("image upload failed", "field", field, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store image")
		return
	}

	user, err := persist(ctx, callerID(ctx), url)
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, userResponse(user), field+" updated")
}

// ChannelProfile handles GET /api/v1/users/c/{username} requests.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := h.Engagement.ChannelProfile(ctx, username, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel profile")
}

// WatchHistory handles GET /api/v1/users/history requests. Videos are
// returned in watch order; ids pointing at deleted videos are skipped.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.Users.WatchHistory(ctx, callerID(ctx))
	if err != nil {
		respondStoreError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, history, "watch history")
}

// RecordWatch handles POST /api/v1/users/history/{videoId} requests,
// moving the video to the front of the caller's history.
func (h UserHandler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID := chi.URLParam(r, "videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	if err := h.Users.RecordWatch(ctx, callerID(ctx), videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "watch recorded")
}

// storeFormImage stages a multipart file locally and forwards it to media
// storage. The staged copy is removed whether or not the upload succeeds.
func (h UserHandler) storeFormImage(r *http.Request, field, folder string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return stageAndUploadImage(r, h.Media, h.UploadDir, file, header, folder)
}

func stageAndUploadImage(r *http.Request, uploader MediaUploader, dir string, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	staged, err := media.Stage(dir, header.Filename, file)
	if err != nil {
		return "", err
	}
	return uploader.UploadImage(r.Context(), staged, folder)
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type loginResponse struct {
	User   userPayload       `json:"user"`
	Tokens models.AuthTokens `json:"tokens"`
}

// userPayload is the user projection exposed over the API. The password
// hash and refresh state never appear here.
type userPayload struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func userResponse(user models.User) userPayload {
	return userPayload{
		ID:         user.ID,
		FullName:   user.FullName,
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.AvatarURL,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
