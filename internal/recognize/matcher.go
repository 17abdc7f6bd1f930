package recognize

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/hnsw"
	"github.com/kozaktomas/classwatch/internal/metrics"
	"github.com/kozaktomas/classwatch/internal/store"
)

const (
	// maxNeighbors is the HNSW M parameter.
	maxNeighbors = 16
	// searchK asks for a few candidates so near-duplicate embeddings
	// of the same person do not hide a closer one.
	searchK = 3
)

// Matcher matches probe embeddings against the registered face set
// using an HNSW graph with cosine distance. Reload swaps the whole
// graph; Best runs under a read lock so reloads never block recognition
// for long.
type Matcher struct {
	tolerance float64

	mu    sync.RWMutex
	graph *hnsw.Graph[int64]
	refs  map[int64]string // graph node ID -> person reference
}

// NewMatcher creates an empty matcher. Faces are loaded with Reload.
func NewMatcher(tolerance float64) *Matcher {
	return &Matcher{
		tolerance: tolerance,
		refs:      make(map[int64]string),
	}
}

// Reload replaces the matcher's graph with the current registered face
// set. Safe to call while Best is in use.
func (m *Matcher) Reload(ctx context.Context, faces store.FaceStore) error {
	known, err := faces.ListKnownFaces(ctx)
	if err != nil {
		return fmt.Errorf("loading known faces: %w", err)
	}

	g := hnsw.NewGraph[int64]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors)
	g.Distance = hnsw.CosineDistance

	refs := make(map[int64]string, len(known))
	for _, f := range known {
		if len(f.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(f.ID, f.Embedding))
		refs[f.ID] = f.PersonRef
	}

	m.mu.Lock()
	m.graph = g
	m.refs = refs
	m.mu.Unlock()

	metrics.KnownFaces.Set(float64(len(refs)))
	return nil
}

// Best returns the person reference of the closest registered face
// within the tolerance, or ("", distance, false) when no face is close
// enough. An empty matcher never matches.
func (m *Matcher) Best(probe []float32) (string, float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.graph == nil || len(m.refs) == 0 {
		return "", 2.0, false
	}

	neighbors := m.graph.Search(probe, searchK)

	bestRef := ""
	bestDist := 2.0
	for _, n := range neighbors {
		ref, ok := m.refs[n.Key]
		if !ok {
			continue
		}
		d := CosineDistance(probe, n.Value)
		if d < bestDist {
			bestRef = ref
			bestDist = d
		}
	}

	if bestRef == "" || bestDist > m.tolerance {
		return "", bestDist, false
	}
	return bestRef, bestDist, true
}

// Count returns the number of loaded embeddings.
func (m *Matcher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.refs)
}
