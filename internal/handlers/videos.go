package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pH-1491/Video-Backend/internal/logging"
	"github.com/pH-1491/Video-Backend/internal/media"
	"github.com/pH-1491/Video-Backend/internal/models"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// VideoHandler implements video publishing and listing endpoints.
type VideoHandler struct {
	Videos    VideoStore
	Media     MediaUploader
	UploadDir string
	NowFunc   func() time.Time
}

// List handles GET /api/v1/videos requests. The result set is filtered,
// sorted and paginated from query parameters; unpublished videos are only
// visible when the caller filters by their own channel.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := models.VideoFilter{
		Query:   strings.TrimSpace(query.Get("query")),
		OwnerID: strings.TrimSpace(query.Get("userId")),
		SortBy:  query.Get("sortBy"),
		SortAsc: strings.EqualFold(query.Get("sortType"), "asc"),
	}
	if filter.OwnerID != "" && filter.OwnerID == callerID(ctx) {
		filter.IncludeUnpublished = true
	}

	page := models.NormalizedPage(atoiDefault(query.Get("page")), atoiDefault(query.Get("limit")))

	result, err := h.Videos.List(ctx, filter, page)
	if err != nil {
		respondStoreError(ctx, w, err, "videos not found")
		return
	}

	respondData(ctx, w, http.StatusOK, videoPagePayload(result), "videos fetched")
}

// Publish handles POST /api/v1/videos requests. The payload is multipart:
// title, description, a videoFile and a thumbnail.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "multipart form data is required")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "videoFile is required")
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "thumbnail is required")
		return
	}
	defer thumbFile.Close()

	stagedVideo, err := media.Stage(h.UploadDir, videoHeader.Filename, videoFile)
	if err != nil {
		logger.Error("stage video upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store video")
		return
	}

	asset, err := h.Media.UploadVideo(ctx, stagedVideo)
	if err != nil {
		logger.Error("video upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store video")
		return
	}

	thumbnailURL, err := stageAndUploadImage(r, h.Media, h.UploadDir, thumbFile, thumbHeader, "thumbnails")
	if err != nil {
		logger.Error("thumbnail upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		VideoURL:    asset.URL,
		Thumbnail:   thumbnailURL,
		Duration:    asset.Duration,
		IsPublished: true,
		OwnerID:     callerID(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("create video failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to publish video")
		return
	}

	respondData(ctx, w, http.StatusCreated, video, "video published")
}

// Get handles GET /api/v1/videos/{videoId} requests and counts the view.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")

	video, err := h.Videos.FindByIDWithOwner(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	if !video.IsPublished && video.OwnerID != callerID(ctx) {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logging.FromContext(ctx).Error("increment views failed", "videoId", videoID, "error", err)
	} else {
		video.Views++
	}

	respondData(ctx, w, http.StatusOK, video, "video fetched")
}

// Update handles PATCH /api/v1/videos/{videoId} requests. Title and
// description come as either JSON or multipart fields; a thumbnail file may
// accompany the multipart form.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	videoID := chi.URLParam(r, "videoId")

	video, ok := h.ownedVideo(w, r, videoID)
	if !ok {
		return
	}

	var title, description string
	var thumbnailURL string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		title = strings.TrimSpace(r.FormValue("title"))
		description = strings.TrimSpace(r.FormValue("description"))

		if file, header, err := r.FormFile("thumbnail"); err == nil {
			defer file.Close()
			thumbnailURL, err = stageAndUploadImage(r, h.Media, h.UploadDir, file, header, "thumbnails")
			if err != nil {
				logger.Error("thumbnail upload failed", "error", err)
				respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
				return
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			respondError(ctx, w, http.StatusBadRequest, "invalid thumbnail upload")
			return
		}
	} else {
		var req updateVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}
		title = strings.TrimSpace(req.Title)
		description = strings.TrimSpace(req.Description)
	}

	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	if thumbnailURL != "" {
		video.Thumbnail = thumbnailURL
	}
	video.UpdatedAt = h.now()

	if err := h.Videos.Update(ctx, video); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, video, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId} requests. Likes, comments
// and playlist membership are removed with the video.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")

	if _, ok := h.ownedVideo(w, r, videoID); !ok {
		return
	}

	if err := h.Videos.Delete(ctx, videoID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId} requests.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "videoId")

	video, ok := h.ownedVideo(w, r, videoID)
	if !ok {
		return
	}

	published := !video.IsPublished
	if err := h.Videos.SetPublished(ctx, videoID, published); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"isPublished": published}, "publish state toggled")
}

// ownedVideo loads the video and enforces ownership. Existence is checked
// first so an unknown id reads as 404, not 403.
func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request, videoID string) (models.Video, bool) {
	ctx := r.Context()

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
		} else {
			respondStoreError(ctx, w, err, "video not found")
		}
		return models.Video{}, false
	}

	if video.OwnerID != callerID(ctx) {
		respondError(ctx, w, http.StatusForbidden, "not the video owner")
		return models.Video{}, false
	}

	return video, true
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type videoListPayload struct {
	Items      []models.VideoWithOwner `json:"items"`
	TotalCount int64                   `json:"totalCount"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
}

func videoPagePayload(page models.VideoPage) videoListPayload {
	items := page.Items
	if items == nil {
		items = []models.VideoWithOwner{}
	}
	return videoListPayload{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
}

func atoiDefault(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
