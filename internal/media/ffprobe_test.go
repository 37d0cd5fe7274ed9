package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFFProbeParsesDuration(t *testing.T) {
	prober := NewFFProbe("ffprobe", time.Second)
	prober.Run = func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		if len(args) == 0 || args[len(args)-1] != "/tmp/clip.mp4" {
			t.Fatalf("expected path as final arg, got %v", args)
		}
		return []byte(`{"format":{"duration":"12.5","format_name":"mov,mp4"}}`), nil
	}

	duration, err := prober.Duration(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if duration != 12.5 {
		t.Fatalf("expected 12.5, got %f", duration)
	}
}

func TestFFProbeCommandFailure(t *testing.T) {
	prober := NewFFProbe("", 0)
	prober.Run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	if _, err := prober.Duration(context.Background(), "/tmp/clip.mp4"); err == nil {
		t.Fatal("expected error from failed command")
	}
}

func TestFFProbeRejectsMalformedOutput(t *testing.T) {
	prober := NewFFProbe("", 0)
	prober.Run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	}

	if _, err := prober.Duration(context.Background(), "/tmp/clip.mp4"); err == nil {
		t.Fatal("expected error for malformed output")
	}
}

func TestFFProbeRejectsMissingDuration(t *testing.T) {
	prober := NewFFProbe("", 0)
	prober.Run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"format":{}}`), nil
	}

	if _, err := prober.Duration(context.Background(), "/tmp/clip.mp4"); err == nil {
		t.Fatal("expected error when duration is absent")
	}
}

func TestFFProbeDefaults(t *testing.T) {
	prober := NewFFProbe("  ", -1)
	if prober.Binary != "ffprobe" {
		t.Fatalf("expected default binary, got %q", prober.Binary)
	}
	if prober.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", prober.Timeout)
	}
}
