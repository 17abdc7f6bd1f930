// Package camera owns the capture device and publishes the most recent
// frame for any number of readers.
package camera

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kozaktomas/classwatch/internal/metrics"
)

const (
	defaultBackoff      = 2 * time.Second
	defaultReadTimeout  = 2 * time.Second
	defaultHealthyAfter = 30 * time.Second
)

// SourceConfig tunes the capture loop.
type SourceConfig struct {
	MaxRetries   int           // reopen attempts before giving up
	Backoff      time.Duration // wait between reopen attempts
	ReadTimeout  time.Duration // per-frame read deadline
	HealthyAfter time.Duration // sustained reads required before the retry budget resets
}

// Source runs the capture loop: it opens the device, continuously reads
// frames and publishes the newest one in a single overwrite slot.
// Readers always observe the latest frame, never a backlog. Open and
// read failures are retried with backoff up to MaxRetries; once the
// budget is spent the source stops producing and reports "no frame"
// until Reconnect is called. The device is released on every exit path.
type Source struct {
	open         OpenFunc
	maxRetries   int
	backoff      time.Duration
	readTimeout  time.Duration
	healthyAfter time.Duration

	mu        sync.Mutex
	latest    Frame
	hasFrame  bool
	active    bool
	exhausted bool

	kick chan struct{} // wakes the loop after manual reconnect
}

func NewSource(open OpenFunc, cfg SourceConfig) *Source {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.HealthyAfter <= 0 {
		cfg.HealthyAfter = defaultHealthyAfter
	}
	return &Source{
		open:         open,
		maxRetries:   cfg.MaxRetries,
		backoff:      cfg.Backoff,
		readTimeout:  cfg.ReadTimeout,
		healthyAfter: cfg.HealthyAfter,
		kick:         make(chan struct{}, 1),
	}
}

// Latest returns a copy of the most recent frame. ok is false while no
// frame has been captured yet or after the source gave up; callers must
// treat that as a valid non-error state.
func (s *Source) Latest() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasFrame {
		return Frame{}, false
	}
	return s.latest.Clone(), true
}

// Active reports whether a device is currently open and producing.
func (s *Source) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Exhausted reports whether the retry budget is spent.
func (s *Source) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}

// Reconnect resets the retry budget and wakes the capture loop. Used by
// the reconnect endpoint after the camera was fixed by hand. While the
// source is still producing it does nothing, so no wakeup token is left
// behind to shortcut a later park.
func (s *Source) Reconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exhausted {
		return
	}
	s.exhausted = false
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run drives the capture loop until ctx is cancelled.
func (s *Source) Run(ctx context.Context) {
	retries := 0
	for ctx.Err() == nil {
		dev, err := s.open()
		if err != nil {
			metrics.CameraReconnects.Inc()
			retries++
			log.Printf("camera: open failed (attempt %d/%d): %v", retries, s.maxRetries, err)
			if retries >= s.maxRetries {
				if !s.giveUp(ctx) {
					return
				}
				retries = 0
				continue
			}
			if !sleepCtx(ctx, s.backoff) {
				return
			}
			continue
		}

		log.Printf("camera: device opened")
		failed, sustained := s.readLoop(ctx, dev)
		dev.Close()
		s.setActive(false)
		if !failed {
			return // cancelled
		}
		if sustained {
			// A long healthy run earns a fresh retry budget; a device
			// flapping every few seconds keeps burning the old one.
			retries = 0
		}

		metrics.CameraReconnects.Inc()
		retries++
		log.Printf("camera: read failed, reconnecting (attempt %d/%d)", retries, s.maxRetries)
		if retries >= s.maxRetries {
			if !s.giveUp(ctx) {
				return
			}
			retries = 0
			continue
		}
		if !sleepCtx(ctx, s.backoff) {
			return
		}
	}
}

// readLoop publishes frames until cancellation or a read failure.
// failed is true when the loop exited because of a read error;
// sustained is true once the device produced frames for HealthyAfter
// without interruption.
func (s *Source) readLoop(ctx context.Context, dev Device) (failed, sustained bool) {
	s.setActive(true)
	healthySince := time.Now()

	for {
		if ctx.Err() != nil {
			return false, sustained
		}
		frame, err := dev.Read(s.readTimeout)
		if err != nil {
			log.Printf("camera: frame read failed: %v", err)
			return true, sustained
		}

		metrics.FramesCaptured.Inc()
		s.mu.Lock()
		s.latest = frame
		s.hasFrame = true
		s.mu.Unlock()

		if !sustained && time.Since(healthySince) >= s.healthyAfter {
			sustained = true
		}
	}
}

// giveUp clears the published frame and parks until Reconnect or
// cancellation. Returns false when ctx was cancelled.
func (s *Source) giveUp(ctx context.Context) bool {
	log.Printf("camera: retries exhausted, waiting for manual reconnect")
	s.mu.Lock()
	s.exhausted = true
	s.hasFrame = false
	s.latest = Frame{}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return false
	case <-s.kick:
		log.Printf("camera: manual reconnect requested")
		return true
	}
}

func (s *Source) setActive(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
