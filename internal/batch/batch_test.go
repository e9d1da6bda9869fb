package batch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"go-duplicatepdf/internal/coords"
)

type fakeDoc struct {
	pageSize    coords.Size
	pages       int
	drawn       []coords.Rect
	drawErr     error
	bytesErr    error
	serialCount int
}

func (d *fakeDoc) PageSize(page int) (coords.Size, error) {
	if page < 0 || page >= d.pages {
		return coords.Size{}, coords.ErrOutOfBounds
	}
	return d.pageSize, nil
}

func (d *fakeDoc) DrawSignatureBox(page int, rect coords.Rect, label string) error {
	if d.drawErr != nil {
		return d.drawErr
	}
	d.drawn = append(d.drawn, rect)
	return nil
}

func (d *fakeDoc) Bytes() ([]byte, error) {
	if d.bytesErr != nil {
		return nil, d.bytesErr
	}
	d.serialCount++
	return []byte(fmt.Sprintf("pdf-%d-%d", d.pages, d.serialCount)), nil
}

type fakeEngine struct {
	validateErr error
	loadErrAt   map[int]error // 1-based call index -> error
	bytesErrAt  map[int]error
	drawErr     error
	loads       int
	docs        []*fakeDoc
}

func (e *fakeEngine) Validate(src []byte) error { return e.validateErr }

func (e *fakeEngine) LoadCopy(src []byte) (Document, error) {
	e.loads++
	if err, ok := e.loadErrAt[e.loads]; ok {
		return nil, err
	}
	d := &fakeDoc{pageSize: coords.Size{Width: 612, Height: 792}, pages: 1, drawErr: e.drawErr}
	if err, ok := e.bytesErrAt[e.loads]; ok {
		d.bytesErr = err
	}
	e.docs = append(e.docs, d)
	return d, nil
}

func recipients(n int) []Recipient {
	out := make([]Recipient, n)
	for i := range out {
		out[i] = Recipient{
			ID:          fmt.Sprintf("u%d", i+1),
			EmployeeID:  fmt.Sprintf("emp-%d", i+1),
			DisplayName: fmt.Sprintf("User %d", i+1),
			Email:       fmt.Sprintf("user%d@example.com", i+1),
		}
	}
	return out
}

func TestDuplicateForAllCompleteness(t *testing.T) {
	for _, n := range []int{1, 3, 25} {
		eng := &fakeEngine{}
		report, err := DuplicateForAll(eng, []byte("src"), recipients(n), Options{Pattern: PatternUsername})
		require.NoError(t, err)
		require.Len(t, report.Results, n)
		for i, res := range report.Results {
			require.Equal(t, fmt.Sprintf("u%d", i+1), res.Recipient.ID, "order preserved")
			require.True(t, res.Succeeded())
			require.NotEmpty(t, res.Bytes)
			require.Equal(t, fmt.Sprintf("emp-%d.pdf", i+1), res.Filename)
		}
	}
}

func TestDuplicateForAllEmptyRecipients(t *testing.T) {
	_, err := DuplicateForAll(&fakeEngine{}, []byte("src"), nil, Options{})
	require.ErrorIs(t, err, ErrNoRecipients)
}

func TestDuplicateForAllUnreadableSource(t *testing.T) {
	eng := &fakeEngine{validateErr: errors.New("garbage")}
	_, err := DuplicateForAll(eng, []byte("src"), recipients(2), Options{})
	require.ErrorIs(t, err, ErrSourceUnreadable)
	require.Zero(t, eng.loads, "no recipient attempted on unreadable source")
}

func TestDuplicateForAllFailureIsolation(t *testing.T) {
	// Recipient #2's copy fails to load; #1 and #3 are untouched.
	eng := &fakeEngine{loadErrAt: map[int]error{2: errors.New("corrupt buffer")}}
	report, err := DuplicateForAll(eng, []byte("src"), recipients(3), Options{})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	require.True(t, report.Results[0].Succeeded())
	require.False(t, report.Results[1].Succeeded())
	require.True(t, report.Results[2].Succeeded())

	require.ErrorIs(t, report.Results[1].Err, ErrDocumentLoad)
	require.Equal(t, "emp-2.pdf", report.Results[1].Filename, "failures stay addressable by filename")
	require.Nil(t, report.Results[1].Bytes)

	base := &fakeEngine{}
	clean, err := DuplicateForAll(base, []byte("src"), recipients(3), Options{})
	require.NoError(t, err)
	require.Equal(t, clean.Results[0].Filename, report.Results[0].Filename)
	require.Equal(t, clean.Results[2].Filename, report.Results[2].Filename)
	require.Equal(t, clean.Results[0].Bytes, report.Results[0].Bytes)
}

func TestDuplicateForAllSerializationFailure(t *testing.T) {
	eng := &fakeEngine{bytesErrAt: map[int]error{1: errors.New("write failed")}}
	report, err := DuplicateForAll(eng, []byte("src"), recipients(2), Options{})
	require.NoError(t, err)
	require.ErrorIs(t, report.Results[0].Err, ErrSerialization)
	require.True(t, report.Results[1].Succeeded())
}

func TestDuplicateForAllAnnotationBestEffort(t *testing.T) {
	area := &coords.NormalizedArea{Page: 0, X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1}

	eng := &fakeEngine{drawErr: errors.New("overlay failed")}
	report, err := DuplicateForAll(eng, []byte("src"), recipients(2), Options{Area: area})
	require.NoError(t, err)
	for _, res := range report.Results {
		require.True(t, res.Succeeded(), "annotation failure must not fail the recipient")
		require.NotEmpty(t, res.Bytes)
	}

	ok := &fakeEngine{}
	report, err = DuplicateForAll(ok, []byte("src"), recipients(2), Options{Area: area})
	require.NoError(t, err)
	require.True(t, report.Results[0].Succeeded())
	for _, doc := range ok.docs {
		require.Len(t, doc.drawn, 1)
		// Identical relative position on every copy.
		require.InDelta(t, 61.2, doc.drawn[0].X, 1e-9)
		require.InDelta(t, 79.2, doc.drawn[0].Y, 1e-9)
	}
}

func TestDuplicateForAllProgress(t *testing.T) {
	var got []Progress
	eng := &fakeEngine{loadErrAt: map[int]error{2: errors.New("boom")}}
	_, err := DuplicateForAll(eng, []byte("src"), recipients(4), Options{
		OnProgress: func(p Progress) { got = append(got, p) },
	})
	require.NoError(t, err)
	require.Len(t, got, 4, "once per recipient, failures included")
	for i, p := range got {
		require.Equal(t, i+1, p.Current)
		require.Equal(t, 4, p.Total)
		require.Equal(t, fmt.Sprintf("User %d", i+1), p.Recipient)
	}
	require.Equal(t, 100, got[3].Percentage)
}

func TestReportGrouping(t *testing.T) {
	eng := &fakeEngine{loadErrAt: map[int]error{2: errors.New("boom"), 4: errors.New("boom")}}
	report, err := DuplicateForAll(eng, []byte("src"), recipients(5), Options{})
	require.NoError(t, err)

	require.Len(t, report.Successes(), 3)
	require.Len(t, report.Failures(), 2)

	stats := report.Stats()
	require.Equal(t, 5, stats.Total)
	require.Equal(t, 3, stats.Successful)
	require.Equal(t, 2, stats.Failed)
	require.InDelta(t, 60.0, stats.SuccessRate, 1e-9)

	res, ok := report.Find("emp-3.pdf")
	require.True(t, ok)
	require.Equal(t, "u3", res.Recipient.ID)
	_, ok = report.Find("missing.pdf")
	require.False(t, ok)
}
