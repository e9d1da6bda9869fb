// Package batch produces one personalized PDF copy per recipient.
//
// The pipeline is strictly sequential: recipients are processed in input
// order, each against a fresh document copy, and one recipient's failure
// never aborts the run. The returned report holds exactly one result per
// recipient, in input order.
package batch

import (
	"errors"
	"fmt"
	"log"

	"go-duplicatepdf/internal/coords"
)

var (
	ErrNoRecipients     = errors.New("no recipients to process")
	ErrSourceUnreadable = errors.New("source document is not readable")

	// Per-recipient error kinds, recorded in results and checked with errors.Is.
	ErrDocumentLoad  = errors.New("document copy failed")
	ErrSerialization = errors.New("document serialization failed")
)

// Recipient is a single target identity. The pipeline treats it as opaque
// beyond the fields the naming patterns read.
type Recipient struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_internal_id,omitempty"`
	DisplayName string `json:"full_name"`
	Email       string `json:"email,omitempty"`
}

// Label returns the name used in progress reporting.
func (r Recipient) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.Email != "" {
		return r.Email
	}
	return r.ID
}

// Document is one recipient's independently owned copy of the source.
type Document interface {
	PageSize(page int) (coords.Size, error)
	DrawSignatureBox(page int, rect coords.Rect, label string) error
	Bytes() ([]byte, error)
}

// Engine supplies the document capabilities the pipeline consumes.
type Engine interface {
	Validate(src []byte) error
	LoadCopy(src []byte) (Document, error)
}

// Result is the outcome for one recipient. Filename is always set, even on
// failure; Bytes is set only on success; Err is nil on success.
type Result struct {
	Recipient Recipient `json:"recipient"`
	Filename  string    `json:"filename"`
	Bytes     []byte    `json:"-"`
	Err       error     `json:"-"`
}

func (r Result) Succeeded() bool { return r.Err == nil }

// Progress is handed to the caller's callback after each recipient.
type Progress struct {
	Current    int    `json:"current"`
	Total      int    `json:"total"`
	Recipient  string `json:"recipient"`
	Percentage int    `json:"percentage"`
}

type ProgressFunc func(Progress)

// Options tunes one duplication run.
type Options struct {
	Pattern NamingPattern
	Prefix  string
	// Area, when set, is denormalized onto each copy and drawn as a
	// visible signature box. Drawing is best effort: a failure leaves
	// the copy unannotated rather than failing the recipient.
	Area       *coords.NormalizedArea
	Label      string
	OnProgress ProgressFunc
}

// Report is the immutable outcome of one duplication run.
type Report struct {
	Results []Result
}

func (r *Report) Successes() []Result {
	out := make([]Result, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) Failures() []Result {
	out := make([]Result, 0)
	for _, res := range r.Results {
		if !res.Succeeded() {
			out = append(out, res)
		}
	}
	return out
}

// Stats summarizes a report for API responses.
type Stats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

func (r *Report) Stats() Stats {
	s := Stats{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Succeeded() {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total) * 100
	}
	return s
}

// Find returns the result with the given filename.
func (r *Report) Find(filename string) (Result, bool) {
	for _, res := range r.Results {
		if res.Filename == filename {
			return res, true
		}
	}
	return Result{}, false
}

// DuplicateForAll generates one output document per recipient, in input
// order. It returns an error only when the whole run is pointless: an empty
// recipient list or a source that cannot be read at all. Everything after
// that is captured per recipient in the report.
func DuplicateForAll(eng Engine, source []byte, recipients []Recipient, opts Options) (*Report, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if err := eng.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}

	report := &Report{Results: make([]Result, 0, len(recipients))}
	for i, rec := range recipients {
		res := Result{
			Recipient: rec,
			Filename:  Filename(rec, opts.Pattern, opts.Prefix),
		}

		doc, err := eng.LoadCopy(source)
		if err != nil {
			res.Err = fmt.Errorf("%w: %v", ErrDocumentLoad, err)
		} else {
			if opts.Area != nil {
				if err := annotate(doc, *opts.Area, opts.Label); err != nil {
					// Delivery over fidelity: the copy ships without the box.
					log.Printf("signature box skipped for %s: %v", res.Filename, err)
				}
			}
			b, err := doc.Bytes()
			if err != nil {
				res.Err = fmt.Errorf("%w: %v", ErrSerialization, err)
			} else {
				res.Bytes = b
			}
		}

		report.Results = append(report.Results, res)
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Current:    i + 1,
				Total:      len(recipients),
				Recipient:  rec.Label(),
				Percentage: (i + 1) * 100 / len(recipients),
			})
		}
	}
	return report, nil
}

func annotate(doc Document, area coords.NormalizedArea, label string) error {
	size, err := doc.PageSize(area.Page)
	if err != nil {
		return err
	}
	rect, err := area.Denormalize(size)
	if err != nil {
		return err
	}
	if label == "" {
		label = "Signature area"
	}
	return doc.DrawSignatureBox(area.Page, rect, label)
}
