package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/classwatch/internal/config"
	"github.com/kozaktomas/classwatch/internal/recognize"
	"github.com/kozaktomas/classwatch/internal/store/postgres"
)

var registerFaceCmd = &cobra.Command{
	Use:   "register-face <photo>",
	Short: "Register a student's face from a photo",
	Long: `Register a face embedding for a student from a photo file.
The photo is sent to the face embedding service; the most confident
detected face is stored under the student's matric number. A student may
have several registered embeddings.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegisterFace,
}

func init() {
	rootCmd.AddCommand(registerFaceCmd)

	registerFaceCmd.Flags().String("matric-no", "", "Matric number of the student (required)")
	_ = registerFaceCmd.MarkFlagRequired("matric-no")
}

func runRegisterFace(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	ref := strings.ToUpper(norm.NFC.String(strings.TrimSpace(mustGetString(cmd, "matric-no"))))
	if ref == "" {
		return errors.New("matric number must not be empty")
	}

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}

	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx := context.Background()

	student, err := pool.GetStudentByRef(ctx, ref)
	if err != nil {
		return fmt.Errorf("looking up student: %w", err)
	}
	if student == nil {
		return fmt.Errorf("no student with matric number %s", ref)
	}

	detector := recognize.NewClient(cfg.Recognizer.URL)
	detections, err := detector.DetectFaces(ctx, imageData)
	if err != nil {
		return fmt.Errorf("face detection failed: %w", err)
	}
	if len(detections) == 0 {
		return errors.New("no face found in the photo")
	}

	best := detections[0]
	for _, d := range detections[1:] {
		if d.Score > best.Score {
			best = d
		}
	}
	if len(detections) > 1 {
		fmt.Printf("Photo contains %d faces, using the most confident one (score %.2f)\n", len(detections), best.Score)
	}

	if err := pool.SaveKnownFace(ctx, ref, best.Embedding); err != nil {
		return fmt.Errorf("saving face: %w", err)
	}

	fmt.Printf("Registered face for %s (%s)\n", student.DisplayName(), ref)
	return nil
}
