package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/classwatch/internal/store"
	"github.com/pgvector/pgvector-go"
)

// ListKnownFaces loads every registered embedding for the matcher.
func (p *Pool) ListKnownFaces(ctx context.Context) ([]store.KnownFace, error) {
	rows, err := p.Query(ctx, `
		SELECT id, person_ref, embedding, created_at
		FROM known_faces
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list known faces: %w", err)
	}
	defer rows.Close()

	var faces []store.KnownFace
	for rows.Next() {
		var f store.KnownFace
		var vec pgvector.Vector
		if err := rows.Scan(&f.ID, &f.PersonRef, &vec, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan known face: %w", err)
		}
		f.Embedding = vec.Slice()
		faces = append(faces, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate known faces: %w", err)
	}
	return faces, nil
}

// SaveKnownFace registers one embedding under a person reference. A
// person may have several embeddings; each registration adds one.
func (p *Pool) SaveKnownFace(ctx context.Context, personRef string, embedding []float32) error {
	_, err := p.Exec(ctx, `
		INSERT INTO known_faces (person_ref, embedding)
		VALUES ($1, $2)`,
		personRef, pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("save known face: %w", err)
	}
	return nil
}

// CountKnownFaces returns the number of registered embeddings.
func (p *Pool) CountKnownFaces(ctx context.Context) (int, error) {
	var n int
	if err := p.QueryRow(ctx, "SELECT COUNT(*) FROM known_faces").Scan(&n); err != nil {
		return 0, fmt.Errorf("count known faces: %w", err)
	}
	return n, nil
}
