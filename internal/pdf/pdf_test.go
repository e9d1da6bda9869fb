package pdf

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/require"

	"go-duplicatepdf/internal/coords"
	"go-duplicatepdf/internal/pdftest"
)

func TestEngineValidate(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.Validate(pdftest.Build(1, 612, 792)))
	require.Error(t, eng.Validate([]byte("not a pdf")))
}

func TestEnginePageSizes(t *testing.T) {
	eng := NewEngine()
	sizes, err := eng.PageSizes(pdftest.Build(3, 595, 842))
	require.NoError(t, err)
	require.Len(t, sizes, 3)
	for _, s := range sizes {
		require.InDelta(t, 595, s.Width, 0.5)
		require.InDelta(t, 842, s.Height, 0.5)
	}
}

func TestDocumentPageSizeBounds(t *testing.T) {
	eng := NewEngine()
	doc, err := eng.LoadCopy(pdftest.Build(2, 612, 792))
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	_, err = doc.PageSize(2)
	require.ErrorIs(t, err, coords.ErrOutOfBounds)
	_, err = doc.PageSize(-1)
	require.ErrorIs(t, err, coords.ErrOutOfBounds)
}

func TestDocumentBytesIndependentCopies(t *testing.T) {
	eng := NewEngine()
	src := pdftest.Build(1, 612, 792)

	a, err := eng.LoadCopy(src)
	require.NoError(t, err)
	b, err := eng.LoadCopy(src)
	require.NoError(t, err)

	ab, err := a.Bytes()
	require.NoError(t, err)
	bb, err := b.Bytes()
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(ab, []byte("%PDF-")))
	require.True(t, bytes.HasPrefix(bb, []byte("%PDF-")))
	// Serializing one copy must not touch the other's buffer.
	require.NotSame(t, &ab[0], &bb[0])
}

// pageContent reads back the decompressed content stream of the one-based
// page so tests can check what was actually drawn.
func pageContent(t *testing.T, eng *Engine, src []byte, pageNr int) string {
	t.Helper()
	ctx, err := pdfapi.ReadContext(bytes.NewReader(src), eng.conf)
	require.NoError(t, err)
	require.NoError(t, pdfapi.ValidateContext(ctx))
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(content)
}

// Translation components of every unrotated, unscaled cm operator.
var translationRe = regexp.MustCompile(`1\.0+ 0\.0+ 0\.0+ 1\.0+ ([0-9.]+) ([0-9.]+) cm`)

func TestDrawSignatureBox(t *testing.T) {
	eng := NewEngine()
	doc, err := eng.LoadCopy(pdftest.Build(1, 612, 792))
	require.NoError(t, err)

	rect := coords.Rect{X: 100, Y: 200, Width: 120, Height: 40}
	err = doc.DrawSignatureBox(0, rect, "Signature area")
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.NoError(t, eng.Validate(out))

	// The rect arrives in top-left space; on the page it must sit at the
	// same x with y flipped into bottom-left space.
	wantX := rect.X
	wantY := 792 - rect.Y - rect.Height
	content := pageContent(t, eng, out, 1)
	require.Contains(t, content, "Signature area")

	var placed bool
	for _, m := range translationRe.FindAllStringSubmatch(content, -1) {
		x, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		if x > wantX-1 && x < wantX+1 && y > wantY-1 && y < wantY+1 {
			placed = true
		}
	}
	require.True(t, placed, "no drawing operation translated to (%.1f, %.1f); content:\n%s", wantX, wantY, content)
}

func TestDrawSignatureBoxRejectsOutOfBounds(t *testing.T) {
	eng := NewEngine()
	doc, err := eng.LoadCopy(pdftest.Build(1, 612, 792))
	require.NoError(t, err)

	err = doc.DrawSignatureBox(0, coords.Rect{X: 600, Y: 10, Width: 80, Height: 20}, "")
	require.ErrorIs(t, err, coords.ErrOutOfBounds)

	err = doc.DrawSignatureBox(5, coords.Rect{X: 10, Y: 10, Width: 80, Height: 20}, "")
	require.ErrorIs(t, err, coords.ErrOutOfBounds)
}
