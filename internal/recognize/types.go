// Package recognize talks to the face embedding service and matches
// detected faces against registered embeddings.
package recognize

import "time"

// Region is a face bounding box in source frame pixel coordinates.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Scale returns the region scaled by 1/factor, mapping coordinates
// from a downscaled frame back to the full-size one.
func (r Region) Scale(factor float64) Region {
	if factor <= 0 || factor == 1 {
		return r
	}
	inv := 1 / factor
	return Region{
		X1: int(float64(r.X1) * inv),
		Y1: int(float64(r.Y1) * inv),
		X2: int(float64(r.X2) * inv),
		Y2: int(float64(r.Y2) * inv),
	}
}

// Detection is one face found in a frame by the embedding service.
type Detection struct {
	Region    Region
	Embedding []float32
	Score     float64
}

// Match is one recognized (or unrecognized) face in a processed frame.
type Match struct {
	Region    Region
	PersonRef string // "" when the face did not match anyone
	Distance  float64
}

// Known reports whether the face matched a registered person.
func (m Match) Known() bool {
	return m.PersonRef != ""
}

// Result is the outcome of one recognition cycle over a frame.
type Result struct {
	FrameSeq    uint64
	ProcessedAt time.Time
	Matches     []Match
}
