package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pH-1491/Video-Backend/internal/logging"
)

// DurationProber reads the playable duration of a local media file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Asset describes a stored media file.
type Asset struct {
	URL      string
	Duration float64
}

// Service stages uploaded files into durable object storage. Local staging
// files are removed whether or not the upload succeeds.
type Service struct {
	storage Storage
	prober  DurationProber
}

// NewService wires storage with an optional duration prober. The prober is
// required only for video uploads.
func NewService(storage Storage, prober DurationProber) *Service {
	return &Service{storage: storage, prober: prober}
}

// UploadImage pushes a staged image to object storage under the given folder
// and returns its public URL.
func (s *Service) UploadImage(ctx context.Context, localPath, folder string) (string, error) {
	defer os.Remove(localPath)

	ctx, span := logging.StartSpan(ctx, "media.upload_image")
	defer span.End()

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()

	key := objectKey(folder, localPath)
	url, err := s.storage.Save(ctx, key, f)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// UploadVideo probes the staged file's duration and pushes it to object
// storage, returning the stored asset.
func (s *Service) UploadVideo(ctx context.Context, localPath string) (Asset, error) {
	defer os.Remove(localPath)

	if s.prober == nil {
		return Asset{}, ErrProbeUnavailable
	}

	ctx, span := logging.StartSpan(ctx, "media.upload_video")
	defer span.End()

	duration, err := s.prober.Duration(ctx, localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("probe video duration: %w", err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open staged upload: %w", err)
	}
	defer f.Close()

	key := objectKey("videos", localPath)
	url, err := s.storage.Save(ctx, key, f)
	if err != nil {
		return Asset{}, fmt.Errorf("store video: %w", err)
	}

	return Asset{URL: url, Duration: duration}, nil
}

// Stage copies an incoming upload into dir and returns the staged path. The
// caller hands the result to UploadImage or UploadVideo, which clean it up.
func Stage(dir, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	staged := filepath.Join(dir, uuid.NewString()+path.Ext(filename))
	f, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(staged)
		return "", fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(staged)
		return "", fmt.Errorf("close staged file: %w", err)
	}

	return staged, nil
}

// objectKey builds a collision-free object name that keeps the original
// file extension.
func objectKey(folder, localPath string) string {
	ext := path.Ext(localPath)
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}
