// Package coords converts signature rectangles between the rendered canvas
// pixel space and a normalized [0,1] representation anchored to a PDF page.
//
// The normalized form is independent of render scale and device pixel ratio,
// so it is computed once per source document and reused for every generated
// copy. Both directions validate strictly: geometrically invalid results are
// rejected, never clamped.
package coords

import (
	"errors"
	"fmt"
)

// Minimum drawable area in canvas pixels.
const (
	MinWidthPx  = 50.0
	MinHeightPx = 20.0
)

var (
	ErrTooSmall    = errors.New("signature area below minimum size")
	ErrOutOfBounds = errors.New("signature area outside page bounds")
	ErrNoCandidate = errors.New("no candidate rectangle to commit")
)

// Size holds width and height in a single coordinate space
// (canvas pixels or page points, depending on context).
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizedArea is a signature rectangle expressed as fractions of the
// page's width and height, bound to a zero-based page index.
type NormalizedArea struct {
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize maps a finalized pixel rectangle drawn on a canvas of canvasSize
// onto the page's native point space and scales it into [0,1].
//
// The X and Y scale factors are computed independently: canvas and page
// aspect ratios may differ slightly due to rounding, so a single uniform
// scale would skew one axis. Rectangles smaller than MinWidthPx×MinHeightPx
// return ErrTooSmall; results that would leave the unit square return
// ErrOutOfBounds.
func Normalize(px Rect, canvas, page Size, pageIndex int) (NormalizedArea, error) {
	if pageIndex < 0 {
		return NormalizedArea{}, fmt.Errorf("page index %d: %w", pageIndex, ErrOutOfBounds)
	}
	if canvas.Width <= 0 || canvas.Height <= 0 || page.Width <= 0 || page.Height <= 0 {
		return NormalizedArea{}, fmt.Errorf("non-positive canvas or page size: %w", ErrOutOfBounds)
	}
	if px.Width < MinWidthPx || px.Height < MinHeightPx {
		return NormalizedArea{}, fmt.Errorf("%.0fx%.0f px (minimum %.0fx%.0f): %w",
			px.Width, px.Height, MinWidthPx, MinHeightPx, ErrTooSmall)
	}

	scaleX := page.Width / canvas.Width
	scaleY := page.Height / canvas.Height

	area := NormalizedArea{
		Page:   pageIndex,
		X:      px.X * scaleX / page.Width,
		Y:      px.Y * scaleY / page.Height,
		Width:  px.Width * scaleX / page.Width,
		Height: px.Height * scaleY / page.Height,
	}
	if err := area.Validate(); err != nil {
		return NormalizedArea{}, err
	}
	return area, nil
}

// Validate reports whether the area lies within the unit square with a
// strictly positive extent.
func (a NormalizedArea) Validate() error {
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("non-positive extent %.4fx%.4f: %w", a.Width, a.Height, ErrOutOfBounds)
	}
	if a.X < 0 || a.Y < 0 || a.X > 1 || a.Y > 1 || a.X+a.Width > 1 || a.Y+a.Height > 1 {
		return fmt.Errorf("normalized rect (%.4f,%.4f,%.4f,%.4f): %w",
			a.X, a.Y, a.Width, a.Height, ErrOutOfBounds)
	}
	return nil
}

// Denormalize scales the area onto a page of the given size, in points.
//
// The caller passes the target page's actual size, re-read per document,
// rather than a cached value: if the source document changed since the area
// was committed, the result is validated against the new page and rejected
// when out of range instead of silently relocating the signature.
func (a NormalizedArea) Denormalize(page Size) (Rect, error) {
	if page.Width <= 0 || page.Height <= 0 {
		return Rect{}, fmt.Errorf("non-positive page size: %w", ErrOutOfBounds)
	}
	if err := a.Validate(); err != nil {
		return Rect{}, err
	}
	r := Rect{
		X:      a.X * page.Width,
		Y:      a.Y * page.Height,
		Width:  a.Width * page.Width,
		Height: a.Height * page.Height,
	}
	if r.X+r.Width > page.Width || r.Y+r.Height > page.Height {
		return Rect{}, fmt.Errorf("rect exceeds %.2fx%.2f pt page: %w",
			page.Width, page.Height, ErrOutOfBounds)
	}
	return r, nil
}
