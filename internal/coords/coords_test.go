package coords

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// US Letter in points.
var letter = Size{Width: 612, Height: 792}

func TestNormalizeLetterAt150Percent(t *testing.T) {
	// 612x792 pt page rendered at 1.5x: canvas 918x1188.
	canvas := Size{Width: 918, Height: 1188}
	px := Rect{X: 100, Y: 200, Width: 120, Height: 40}

	area, err := Normalize(px, canvas, letter, 0)
	require.NoError(t, err)
	require.Equal(t, 0, area.Page)
	require.InDelta(t, 0.1089, area.X, 1e-3)
	require.InDelta(t, 0.1684, area.Y, 1e-3)
	require.InDelta(t, 0.1307, area.Width, 1e-3)
	require.InDelta(t, 0.0337, area.Height, 1e-3)
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		page := Size{
			Width:  200 + rng.Float64()*1000,
			Height: 200 + rng.Float64()*1400,
		}
		scale := 0.5 + rng.Float64()*3.5
		canvas := Size{Width: page.Width * scale, Height: page.Height * scale}

		px := Rect{
			Width:  MinWidthPx + rng.Float64()*(canvas.Width/2-MinWidthPx),
			Height: MinHeightPx + rng.Float64()*(canvas.Height/2-MinHeightPx),
		}
		px.X = rng.Float64() * (canvas.Width - px.Width)
		px.Y = rng.Float64() * (canvas.Height - px.Height)

		area, err := Normalize(px, canvas, page, 0)
		require.NoError(t, err, "iteration %d: %+v on %v/%v", i, px, canvas, page)

		got, err := area.Denormalize(page)
		require.NoError(t, err, "iteration %d", i)

		// Back in page points; compare against the pixel rect mapped
		// through the same scale. Tolerance of 1 pt covers rounding.
		require.InDelta(t, px.X/scale, got.X, 1.0, "iteration %d x", i)
		require.InDelta(t, px.Y/scale, got.Y, 1.0, "iteration %d y", i)
		require.InDelta(t, px.Width/scale, got.Width, 1.0, "iteration %d width", i)
		require.InDelta(t, px.Height/scale, got.Height, 1.0, "iteration %d height", i)
	}
}

func TestNormalizeRejectsOutOfBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	canvas := letter // 1:1 render

	for i := 0; i < 500; i++ {
		px := Rect{
			Width:  MinWidthPx + rng.Float64()*200,
			Height: MinHeightPx + rng.Float64()*100,
		}
		// Push at least 1 pt past the right or bottom edge.
		if i%2 == 0 {
			px.X = canvas.Width - px.Width + 1 + rng.Float64()*50
			px.Y = rng.Float64() * (canvas.Height - px.Height)
		} else {
			px.X = rng.Float64() * (canvas.Width - px.Width)
			px.Y = canvas.Height - px.Height + 1 + rng.Float64()*50
		}

		_, err := Normalize(px, canvas, letter, 0)
		require.ErrorIs(t, err, ErrOutOfBounds, "iteration %d: %+v", i, px)
	}
}

func TestNormalizeRejectsNegativeOrigin(t *testing.T) {
	for _, px := range []Rect{
		{X: -1, Y: 10, Width: 100, Height: 40},
		{X: 10, Y: -1, Width: 100, Height: 40},
	} {
		_, err := Normalize(px, letter, letter, 0)
		require.ErrorIs(t, err, ErrOutOfBounds)
	}
}

func TestNormalizeRejectsTooSmall(t *testing.T) {
	pages := []Size{letter, {Width: 2000, Height: 3000}, {Width: 100, Height: 100}}
	rects := []Rect{
		{X: 10, Y: 10, Width: MinWidthPx - 1, Height: 50},
		{X: 10, Y: 10, Width: 200, Height: MinHeightPx - 1},
		{X: 10, Y: 10, Width: 0, Height: 0},
	}
	for _, page := range pages {
		for _, px := range rects {
			_, err := Normalize(px, letter, page, 0)
			require.ErrorIs(t, err, ErrTooSmall, "rect %+v page %+v", px, page)
		}
	}
}

func TestNormalizeRejectsNegativePage(t *testing.T) {
	_, err := Normalize(Rect{X: 10, Y: 10, Width: 100, Height: 40}, letter, letter, -1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestDenormalizeRereadsPageSize(t *testing.T) {
	area := NormalizedArea{Page: 0, X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25}

	a4 := Size{Width: 595, Height: 842}
	r, err := area.Denormalize(a4)
	require.NoError(t, err)
	require.InDelta(t, 148.75, r.X, 1e-9)
	require.InDelta(t, 421, r.Y, 1e-9)
	require.InDelta(t, 297.5, r.Width, 1e-9)
	require.InDelta(t, 210.5, r.Height, 1e-9)

	// Same area against a different target size scales, never errors,
	// as long as the fractions still fit.
	r2, err := area.Denormalize(letter)
	require.NoError(t, err)
	require.False(t, math.IsNaN(r2.X))
	require.InDelta(t, 306, r2.Width, 1e-9)
}

func TestDenormalizeRejectsCorruptArea(t *testing.T) {
	for _, area := range []NormalizedArea{
		{X: 0.9, Y: 0.1, Width: 0.2, Height: 0.1},
		{X: 0.1, Y: 0.95, Width: 0.2, Height: 0.1},
		{X: -0.1, Y: 0.1, Width: 0.2, Height: 0.1},
		{X: 0.1, Y: 0.1, Width: 0, Height: 0.1},
	} {
		_, err := area.Denormalize(letter)
		require.ErrorIs(t, err, ErrOutOfBounds, "area %+v", area)
	}
}
