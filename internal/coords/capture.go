package coords

// CaptureState tracks one interactive drag session.
type CaptureState int

const (
	StateIdle CaptureState = iota
	StateDragging
	StateCandidate
	StateCommitted
)

func (s CaptureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateCandidate:
		return "candidate"
	case StateCommitted:
		return "committed"
	}
	return "unknown"
}

// Point is a position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Capture is the finite-state value behind signature-area selection:
// idle → dragging → candidate → committed. A document holds at most one
// committed area; starting a new drag discards the previous one
// immediately, and a failed commit falls back to idle while preserving
// whatever was committed before the drag began.
type Capture struct {
	state     CaptureState
	start     Point
	current   Point
	committed *NormalizedArea
}

func NewCapture() *Capture {
	return &Capture{state: StateIdle}
}

func (c *Capture) State() CaptureState { return c.state }

// Committed returns the committed area, or nil if none.
func (c *Capture) Committed() *NormalizedArea {
	if c.committed == nil {
		return nil
	}
	a := *c.committed
	return &a
}

// Begin starts a drag at p. Any previously committed area is discarded,
// enforcing the single-area-per-document invariant.
func (c *Capture) Begin(p Point) {
	c.committed = nil
	c.start = p
	c.current = p
	c.state = StateDragging
}

// Move updates the drag position. Ignored outside the dragging state.
func (c *Capture) Move(p Point) {
	if c.state != StateDragging {
		return
	}
	c.current = p
}

// Release finalizes the drag into a candidate rectangle, normalizing the
// drag direction so x/y are the top-left corner regardless of which way
// the pointer traveled.
func (c *Capture) Release() (Rect, bool) {
	if c.state != StateDragging {
		return Rect{}, false
	}
	c.state = StateCandidate
	return c.candidateRect(), true
}

func (c *Capture) candidateRect() Rect {
	return Rect{
		X:      min(c.start.X, c.current.X),
		Y:      min(c.start.Y, c.current.Y),
		Width:  abs(c.current.X - c.start.X),
		Height: abs(c.current.Y - c.start.Y),
	}
}

// Commit normalizes the candidate rectangle against the page. On success
// the area becomes the committed one; on failure the capture returns to
// idle with no committed area (the previous one was already discarded by
// Begin) and the error is returned for the caller to surface.
func (c *Capture) Commit(canvas, page Size, pageIndex int) (NormalizedArea, error) {
	if c.state != StateCandidate {
		return NormalizedArea{}, ErrNoCandidate
	}
	area, err := Normalize(c.candidateRect(), canvas, page, pageIndex)
	if err != nil {
		c.state = StateIdle
		return NormalizedArea{}, err
	}
	c.committed = &area
	c.state = StateCommitted
	return area, nil
}

// Reset discards any candidate or committed area.
func (c *Capture) Reset() {
	c.committed = nil
	c.state = StateIdle
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
