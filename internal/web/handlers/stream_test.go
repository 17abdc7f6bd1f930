package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStreamPauseResume(t *testing.T) {
	fs := &fakeStream{}
	h := NewStreamHandler(fs)

	code, body := doJSON(t, h.Pause, "POST", "/api/pause-stream")
	if code != http.StatusOK || body["stream"] != "paused" {
		t.Errorf("expected paused response, got %d %v", code, body)
	}
	if !fs.Paused() {
		t.Error("expected composer paused")
	}

	code, body = doJSON(t, h.Resume, "POST", "/api/resume-stream")
	if code != http.StatusOK || body["stream"] != "live" {
		t.Errorf("expected live response, got %d %v", code, body)
	}
	if fs.Paused() {
		t.Error("expected composer resumed")
	}
}

func TestStreamVideoDelegates(t *testing.T) {
	fs := &fakeStream{}
	h := NewStreamHandler(fs)

	req := httptest.NewRequest("GET", "/video", nil)
	h.Video(httptest.NewRecorder(), req)
	if fs.served != 1 {
		t.Errorf("expected composer to serve the request, served=%d", fs.served)
	}
}

func TestReconnect(t *testing.T) {
	cam := &fakeCamera{exhausted: true}
	refreshed := 0
	h := NewControlHandler(cam, func(context.Context) error {
		refreshed++
		return nil
	})

	code, body := doJSON(t, h.Reconnect, "POST", "/api/reconnect")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if cam.reconnects != 1 {
		t.Errorf("expected one reconnect, got %d", cam.reconnects)
	}
	if refreshed != 1 {
		t.Errorf("expected one refresh, got %d", refreshed)
	}
	if body["refresh"] != "ok" {
		t.Errorf("expected refresh ok, got %v", body["refresh"])
	}
}

func TestReconnectRefreshFailure(t *testing.T) {
	cam := &fakeCamera{}
	h := NewControlHandler(cam, func(context.Context) error {
		return errors.New("db down")
	})

	code, body := doJSON(t, h.Reconnect, "POST", "/api/reconnect")
	if code != http.StatusOK {
		t.Fatalf("expected 200 even on refresh failure, got %d", code)
	}
	if body["refresh"] != "failed" {
		t.Errorf("expected refresh failed, got %v", body["refresh"])
	}
	if cam.reconnects != 1 {
		t.Errorf("camera reconnect must still happen, got %d", cam.reconnects)
	}
}
