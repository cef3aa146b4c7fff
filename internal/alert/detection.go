// Package alert implements the risk-aware alert decision engine: it keeps
// identity-stable state for noisily tracked detections, infers direction of
// travel from bounding-box geometry, ranks simultaneous hazards, and speaks
// at most one announcement per cycle through a rate-limited voice channel.
package alert

import "math"

// Position is the lateral bucket of a detection in the camera frame.
type Position string

const (
	PositionLeft   Position = "left"
	PositionCenter Position = "center"
	PositionRight  Position = "right"
)

// BBox is an axis-aligned bounding box in the fixed camera reference frame.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Area returns the box area. Degenerate or inverted boxes yield 0, which
// downstream forces motion to stationary rather than erroring.
func (b BBox) Area() float64 {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// DistanceBeyondRange is the sentinel applied at the boundary when the
// perception layer supplied no distance estimate. It classifies as CLEAR, so
// the detection is skipped rather than erred.
var DistanceBeyondRange = math.Inf(1)

// Detection is one perception result for one object in one cycle. Optional
// fields arrive as pointers or empty values; the Area and Distance accessors
// resolve them to explicit defaults before any decision logic runs.
type Detection struct {
	Class          string   `json:"class"`
	Confidence     float64  `json:"confidence"`
	BBox           *BBox    `json:"bbox,omitempty"`
	TrackID        string   `json:"track_id,omitempty"`
	DistanceMeters *float64 `json:"distance_m,omitempty"`
	Position       Position `json:"position,omitempty"`
}

// Area returns the bounding-box area, 0 when the box is missing or malformed.
func (d Detection) Area() float64 {
	if d.BBox == nil {
		return 0
	}
	return d.BBox.Area()
}

// Distance returns the supplied distance estimate, or DistanceBeyondRange
// when none was given.
func (d Detection) Distance() float64 {
	if d.DistanceMeters == nil {
		return DistanceBeyondRange
	}
	return *d.DistanceMeters
}

// Identity is the key correlating an object across cycles. The perception
// layer's track ID is preferred; without one a synthetic key is built from
// class and lateral position.
//
// The synthetic strategy cannot distinguish two simultaneous same-class
// objects in the same position bucket; that aliasing is documented behavior,
// not corrected here. Perception layers that care must supply track IDs.
type Identity struct {
	TrackID  string
	Class    string
	Position Position
}

// ResolveIdentity derives the identity for a detection.
func ResolveIdentity(d Detection) Identity {
	if d.TrackID != "" {
		return Identity{TrackID: d.TrackID}
	}
	return Identity{Class: d.Class, Position: d.Position}
}

// Synthetic reports whether the identity was synthesized from class+position.
func (id Identity) Synthetic() bool {
	return id.TrackID == ""
}

// Key returns the map key for this identity.
func (id Identity) Key() string {
	if id.TrackID != "" {
		return "track:" + id.TrackID
	}
	return "synth:" + id.Class + "@" + string(id.Position)
}
