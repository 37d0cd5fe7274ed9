package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeStorage struct {
	objects map[string]string
	err     error
}

func (f *fakeStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = make(map[string]string)
	}
	f.objects[name] = string(body)
	return "https://cdn.example.com/" + name, nil
}

type fakeProber struct {
	duration float64
	err      error
}

func (f *fakeProber) Duration(context.Context, string) (float64, error) {
	return f.duration, f.err
}

func stageTempFile(t *testing.T, content string) string {
	t.Helper()
	staged := filepath.Join(t.TempDir(), "upload.mp4")
	if err := os.WriteFile(staged, []byte(content), 0o644); err != nil {
		t.Fatalf("write staged file: %v", err)
	}
	return staged
}

func TestUploadVideoStoresAssetAndRemovesStagedFile(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewService(storage, &fakeProber{duration: 42.25})
	staged := stageTempFile(t, "video-bytes")

	asset, err := svc.UploadVideo(context.Background(), staged)
	if err != nil {
		t.Fatalf("UploadVideo returned error: %v", err)
	}
	if asset.Duration != 42.25 {
		t.Fatalf("expected probed duration, got %f", asset.Duration)
	}
	if !strings.HasPrefix(asset.URL, "https://cdn.example.com/videos/") {
		t.Fatalf("unexpected asset URL %q", asset.URL)
	}
	if !strings.HasSuffix(asset.URL, ".mp4") {
		t.Fatalf("expected original extension to survive, got %q", asset.URL)
	}
	if _, err := os.Stat(staged); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected staged file to be removed after upload")
	}
}

func TestUploadVideoRemovesStagedFileOnFailure(t *testing.T) {
	svc := NewService(&fakeStorage{err: errors.New("bucket down")}, &fakeProber{duration: 10})
	staged := stageTempFile(t, "video-bytes")

	if _, err := svc.UploadVideo(context.Background(), staged); err == nil {
		t.Fatal("expected error from storage failure")
	}
	if _, err := os.Stat(staged); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected staged file to be removed after failed upload")
	}
}

func TestUploadVideoFailsWhenProbeFails(t *testing.T) {
	svc := NewService(&fakeStorage{}, &fakeProber{err: errors.New("unreadable")})
	staged := stageTempFile(t, "video-bytes")

	if _, err := svc.UploadVideo(context.Background(), staged); err == nil {
		t.Fatal("expected error from probe failure")
	}
}

func TestUploadImageUsesFolderKey(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewService(storage, nil)
	staged := filepath.Join(t.TempDir(), "avatar.png")
	if err := os.WriteFile(staged, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("write staged file: %v", err)
	}

	url, err := svc.UploadImage(context.Background(), staged, "avatars")
	if err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/avatars/") {
		t.Fatalf("unexpected URL %q", url)
	}
	for key, body := range storage.objects {
		if body != "png-bytes" {
			t.Fatalf("stored body mismatch for %s", key)
		}
	}
}

func TestStageCopiesUpload(t *testing.T) {
	dir := t.TempDir()

	staged, err := Stage(dir, "clip.mp4", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Stage returned error: %v", err)
	}
	if filepath.Ext(staged) != ".mp4" {
		t.Fatalf("expected staged file to keep extension, got %q", staged)
	}
	body, err := os.ReadFile(staged)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("staged body mismatch: %q", body)
	}
}
