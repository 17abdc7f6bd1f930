package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/classwatch/internal/recognize"
	"github.com/kozaktomas/classwatch/internal/store"
)

const maxUploadSize = 10 << 20 // 10 MiB

// FaceDetector finds faces and embeddings in an image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, jpegData []byte) ([]recognize.Detection, error)
}

// UploadHandler registers face embeddings from uploaded photos.
type UploadHandler struct {
	detector  FaceDetector
	faces     store.FaceStore
	people    store.PeopleStore
	afterSave func(ctx context.Context) error
}

// NewUploadHandler creates the face registration handler. afterSave
// runs after a successful save, typically a matcher reload.
func NewUploadHandler(detector FaceDetector, faces store.FaceStore, people store.PeopleStore, afterSave func(ctx context.Context) error) *UploadHandler {
	return &UploadHandler{
		detector:  detector,
		faces:     faces,
		people:    people,
		afterSave: afterSave,
	}
}

// normalizeRef canonicalizes a person reference from user input.
func normalizeRef(ref string) string {
	return strings.ToUpper(norm.NFC.String(strings.TrimSpace(ref)))
}

// Upload handles POST /upload-image.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	ref := normalizeRef(r.FormValue("matric_no"))
	if ref == "" {
		respondError(w, http.StatusBadRequest, "matric_no is required")
		return
	}

	student, err := h.people.GetStudentByRef(r.Context(), ref)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to look up student")
		return
	}
	if student == nil {
		respondError(w, http.StatusNotFound, "unknown matric number")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	detections, err := h.detector.DetectFaces(r.Context(), imageData)
	if err != nil {
		log.Printf("web: face detection for upload: %v", err)
		respondError(w, http.StatusBadGateway, "face detection failed")
		return
	}
	if len(detections) == 0 {
		respondError(w, http.StatusBadRequest, "no face found in image")
		return
	}

	// Several faces in one photo: take the most confident detection.
	best := detections[0]
	for _, d := range detections[1:] {
		if d.Score > best.Score {
			best = d
		}
	}

	if err := h.faces.SaveKnownFace(r.Context(), ref, best.Embedding); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save face")
		return
	}

	if h.afterSave != nil {
		if err := h.afterSave(r.Context()); err != nil {
			log.Printf("web: matcher reload after upload: %v", err)
		}
	}

	log.Printf("web: registered face for %s", sanitizeForLog(ref))
	respondJSON(w, http.StatusCreated, map[string]any{
		"registered":  ref,
		"faces_found": len(detections),
	})
}
