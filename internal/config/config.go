package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Attendance AttendanceConfig
	Recognizer RecognizerConfig
	Camera     CameraConfig
	Database   DatabaseConfig
	Web        WebConfig
}

type AttendanceConfig struct {
	EarlyWindow   time.Duration // attendance opens this long before class start
	LateGrace     time.Duration // arrivals after start + grace are marked late
	EndBuffer     time.Duration // attendance closes this long before class end
	CacheInterval time.Duration // how often the active window is re-resolved
}

type RecognizerConfig struct {
	URL        string  // face embedding service base URL (e.g. http://localhost:8000)
	Tolerance  float64 // max cosine distance for a face match
	FrameScale float64 // downscale factor applied before detection
	EveryNth   int     // submit every Nth captured frame for recognition
}

type CameraConfig struct {
	Device     string // v4l2 device path (e.g. /dev/video0)
	FPS        int
	Width      int
	Height     int
	MaxRetries int // reopen attempts before the source gives up
	QueueSize  int // dispatch queue capacity between capture and recognition
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	APISecretKey   string   // X-API-Key guard for mutating endpoints (empty = disabled)
	AllowedOrigins []string // CORS origins
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envMinutes reads an environment variable holding a whole number of minutes.
func envMinutes(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Minute
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	origins := strings.Split(envString("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Attendance: AttendanceConfig{
			EarlyWindow:   envMinutes("EARLY_WINDOW_MINUTES", 15*time.Minute),
			LateGrace:     envMinutes("LATE_GRACE_MINUTES", 15*time.Minute),
			EndBuffer:     envMinutes("END_BUFFER_MINUTES", 15*time.Minute),
			CacheInterval: time.Duration(envInt("WINDOW_CHECK_INTERVAL", 30)) * time.Second,
		},
		Recognizer: RecognizerConfig{
			URL:        envString("RECOGNIZER_URL", "http://localhost:8000"),
			Tolerance:  envFloat("FACE_TOLERANCE", 0.6),
			FrameScale: envFloat("FRAME_SCALE", 0.2),
			EveryNth:   envInt("PROCESS_EVERY_N", 5),
		},
		Camera: CameraConfig{
			Device:     envString("CAMERA_DEVICE", "/dev/video0"),
			FPS:        envInt("CAMERA_FPS", 30),
			Width:      envInt("CAMERA_WIDTH", 640),
			Height:     envInt("CAMERA_HEIGHT", 480),
			MaxRetries: envInt("MAX_CAMERA_RETRIES", 5),
			QueueSize:  envInt("DISPATCH_QUEUE_SIZE", 3),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			APISecretKey:   os.Getenv("API_SECRET_KEY"),
			AllowedOrigins: origins,
		},
	}
}
