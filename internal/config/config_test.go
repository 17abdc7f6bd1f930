package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Attendance.EarlyWindow != 15*time.Minute {
		t.Errorf("expected EarlyWindow 15m, got %v", cfg.Attendance.EarlyWindow)
	}
	if cfg.Attendance.LateGrace != 15*time.Minute {
		t.Errorf("expected LateGrace 15m, got %v", cfg.Attendance.LateGrace)
	}
	if cfg.Attendance.CacheInterval != 30*time.Second {
		t.Errorf("expected CacheInterval 30s, got %v", cfg.Attendance.CacheInterval)
	}
	if cfg.Recognizer.Tolerance != 0.6 {
		t.Errorf("expected Tolerance 0.6, got %f", cfg.Recognizer.Tolerance)
	}
	if cfg.Recognizer.EveryNth != 5 {
		t.Errorf("expected EveryNth 5, got %d", cfg.Recognizer.EveryNth)
	}
	if cfg.Camera.MaxRetries != 5 {
		t.Errorf("expected MaxRetries 5, got %d", cfg.Camera.MaxRetries)
	}
	if cfg.Camera.QueueSize != 3 {
		t.Errorf("expected QueueSize 3, got %d", cfg.Camera.QueueSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EARLY_WINDOW_MINUTES", "10")
	t.Setenv("FACE_TOLERANCE", "0.45")
	t.Setenv("PROCESS_EVERY_N", "3")
	t.Setenv("CAMERA_DEVICE", "/dev/video2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Attendance.EarlyWindow != 10*time.Minute {
		t.Errorf("expected EarlyWindow 10m, got %v", cfg.Attendance.EarlyWindow)
	}
	if cfg.Recognizer.Tolerance != 0.45 {
		t.Errorf("expected Tolerance 0.45, got %f", cfg.Recognizer.Tolerance)
	}
	if cfg.Recognizer.EveryNth != 3 {
		t.Errorf("expected EveryNth 3, got %d", cfg.Recognizer.EveryNth)
	}
	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("expected device /dev/video2, got %s", cfg.Camera.Device)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", cfg.Web.AllowedOrigins)
	}
}

func TestEnvIntRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"garbage", "abc"},
		{"negative", "-3"},
		{"zero", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DISPATCH_QUEUE_SIZE", tc.value)
			if got := envInt("DISPATCH_QUEUE_SIZE", 3); got != 3 {
				t.Errorf("envInt(%q) = %d; want default 3", tc.value, got)
			}
		})
	}
}
