// Package pdf wraps pdfcpu for the duplication pipeline.
//
// Engine exposes the document capabilities the batch layer needs:
//   - Validate: Checks that a source buffer is a readable PDF.
//   - PageSizes: Returns per-page dimensions in points.
//   - LoadCopy: Loads an independent document copy from the source bytes.
//
// Document instances are never shared between recipients; each copy owns
// its parsed context so a failure in one cannot corrupt another.
package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"go-duplicatepdf/internal/coords"
)

type Engine struct {
	conf *model.Configuration
}

func NewEngine() *Engine {
	return &Engine{conf: model.NewDefaultConfiguration()}
}

// Validate checks that src parses as a well-formed PDF.
func (e *Engine) Validate(src []byte) error {
	ctx, err := pdfapi.ReadContext(bytes.NewReader(src), e.conf)
	if err != nil {
		return fmt.Errorf("reading PDF: %w", err)
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return fmt.Errorf("validating PDF: %w", err)
	}
	return nil
}

// PageSizes returns the dimensions of every page in points, at scale 1.0.
func (e *Engine) PageSizes(src []byte) ([]coords.Size, error) {
	doc, err := e.LoadCopy(src)
	if err != nil {
		return nil, err
	}
	return doc.sizes, nil
}

// LoadCopy parses src into a fresh, independently owned document.
func (e *Engine) LoadCopy(src []byte) (*Document, error) {
	ctx, err := pdfapi.ReadContext(bytes.NewReader(src), e.conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validating PDF: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("reading page dimensions: %w", err)
	}
	sizes := make([]coords.Size, len(dims))
	for i, d := range dims {
		sizes[i] = coords.Size{Width: d.Width, Height: d.Height}
	}
	return &Document{eng: e, ctx: ctx, sizes: sizes}, nil
}

// Document is one recipient's in-memory copy of the source PDF.
type Document struct {
	eng       *Engine
	ctx       *model.Context
	sizes     []coords.Size
	annotated []byte
}

func (d *Document) PageCount() int { return len(d.sizes) }

// PageSize returns the size of the zero-based page in points. It always
// reflects this document's actual geometry rather than a cached value from
// capture time.
func (d *Document) PageSize(page int) (coords.Size, error) {
	if page < 0 || page >= len(d.sizes) {
		return coords.Size{}, fmt.Errorf("page %d of %d: %w", page, len(d.sizes), coords.ErrOutOfBounds)
	}
	return d.sizes[page], nil
}

// Overlay description consumed by pdfcpu's create API.
type overlayDoc struct {
	Pages map[string]overlayPage `json:"pages"`
}

type overlayPage struct {
	Content overlayContent `json:"content"`
}

type overlayContent struct {
	Boxes []overlayBox  `json:"box,omitempty"`
	Texts []overlayText `json:"text,omitempty"`
}

type overlayBox struct {
	// Position uses pdfcpu's "pos" key, an [x, y] pair in page points.
	Pos       [2]float64     `json:"pos"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	FillColor string         `json:"fillCol,omitempty"`
	Border    *overlayBorder `json:"border,omitempty"`
}

type overlayBorder struct {
	Width float64 `json:"width"`
	Color string  `json:"col"`
}

type overlayText struct {
	Value string      `json:"value"`
	Pos   [2]float64  `json:"pos"`
	Font  overlayFont `json:"font"`
}

type overlayFont struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Color string `json:"col,omitempty"`
}

const labelFontSize = 8

// DrawSignatureBox stamps a bordered rectangle and a small label onto the
// zero-based page. rect uses the capture side's top-left origin; the flip
// into PDF bottom-left space happens here, where the page height is
// authoritative.
func (d *Document) DrawSignatureBox(page int, rect coords.Rect, label string) error {
	size, err := d.PageSize(page)
	if err != nil {
		return err
	}
	if rect.X < 0 || rect.Y < 0 || rect.X+rect.Width > size.Width || rect.Y+rect.Height > size.Height {
		return fmt.Errorf("rect (%.2f,%.2f,%.2f,%.2f) on %.2fx%.2f pt page: %w",
			rect.X, rect.Y, rect.Width, rect.Height, size.Width, size.Height, coords.ErrOutOfBounds)
	}

	content := overlayContent{
		Boxes: []overlayBox{{
			Pos:       [2]float64{rect.X, size.Height - rect.Y - rect.Height},
			Width:     rect.Width,
			Height:    rect.Height,
			FillColor: "#F3F4F6",
			Border:    &overlayBorder{Width: 1, Color: "#B3B3B3"},
		}},
	}
	if label != "" {
		content.Texts = []overlayText{{
			Value: label,
			Pos:   [2]float64{rect.X + 2, size.Height - rect.Y - labelFontSize - 4},
			Font:  overlayFont{Name: "Helvetica", Size: labelFontSize, Color: "#808080"},
		}}
	}

	desc, err := json.Marshal(overlayDoc{
		Pages: map[string]overlayPage{fmt.Sprintf("%d", page+1): {Content: content}},
	})
	if err != nil {
		return fmt.Errorf("building overlay: %w", err)
	}

	cur, err := d.Bytes()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := pdfapi.Create(bytes.NewReader(cur), bytes.NewReader(desc), &out, d.eng.conf); err != nil {
		return fmt.Errorf("applying overlay: %w", err)
	}
	d.annotated = out.Bytes()
	return nil
}

// Bytes serializes the document. If the signature box has been drawn, the
// annotated form is returned; otherwise the parsed context is rewritten so
// every recipient gets an independently serialized copy.
func (d *Document) Bytes() ([]byte, error) {
	if d.annotated != nil {
		return d.annotated, nil
	}
	var buf bytes.Buffer
	if err := pdfapi.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}
