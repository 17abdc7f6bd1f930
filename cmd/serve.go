package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/classwatch/internal/attendance"
	"github.com/kozaktomas/classwatch/internal/camera"
	"github.com/kozaktomas/classwatch/internal/config"
	"github.com/kozaktomas/classwatch/internal/pipeline"
	"github.com/kozaktomas/classwatch/internal/recognize"
	"github.com/kozaktomas/classwatch/internal/schedule"
	"github.com/kozaktomas/classwatch/internal/store/postgres"
	"github.com/kozaktomas/classwatch/internal/stream"
	"github.com/kozaktomas/classwatch/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance service",
	Long: `Start the Classwatch attendance service.
The service captures camera frames, recognizes enrolled students through
the face embedding service and records attendance while a class window
is open. It also serves the MJPEG preview and the JSON API.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Bool("no-camera", false, "Run without a capture device (API and stream placeholders only)")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	matcher := recognize.NewMatcher(cfg.Recognizer.Tolerance)
	if err := matcher.Reload(ctx, pool); err != nil {
		fmt.Printf("Warning: failed to load known faces: %v\n", err)
		fmt.Printf("Recognition starts with an empty face set\n")
	} else {
		fmt.Printf("Loaded %d known face embeddings\n", matcher.Count())
	}

	detector := recognize.NewClient(cfg.Recognizer.URL)

	windows := schedule.NewCache(pool, schedule.Timing{
		EarlyWindow: cfg.Attendance.EarlyWindow,
		LateGrace:   cfg.Attendance.LateGrace,
		EndBuffer:   cfg.Attendance.EndBuffer,
	}, cfg.Attendance.CacheInterval)

	source := camera.NewSource(func() (camera.Device, error) {
		return camera.OpenGst(camera.GstConfig{
			Device: cfg.Camera.Device,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Camera.FPS,
		})
	}, camera.SourceConfig{MaxRetries: cfg.Camera.MaxRetries})

	people := attendance.NewPeople(pool)
	writer := attendance.NewWriter(pool, people)

	queue := pipeline.NewQueue(cfg.Camera.QueueSize)
	board := pipeline.NewResultBoard()
	pump := pipeline.NewPump(source, queue, windows, cfg.Camera.FPS, cfg.Recognizer.EveryNth)
	worker := pipeline.NewWorker(queue, windows, detector, matcher, writer, board, cfg.Recognizer.FrameScale)

	// Overlay labels prefer the student nickname.
	nameFor := func(ref string) string {
		s, err := people.Student(context.Background(), ref)
		if err != nil || s == nil {
			return ref
		}
		return s.DisplayName()
	}
	composer := stream.NewComposer(source, board, windows, nameFor)

	refresh := func(ctx context.Context) error {
		people.Invalidate()
		windows.Invalidate()
		return matcher.Reload(ctx, pool)
	}

	if !mustGetBool(cmd, "no-camera") {
		go source.Run(ctx)
		go pump.Run(ctx)
	}
	go worker.Run(ctx)

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, web.Deps{
		Store:    pool,
		Camera:   source,
		Stream:   composer,
		Windows:  windows,
		Detector: detector,
		Refresh:  refresh,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Classwatch on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	return server.Start()
}
