package domain

import (
	"fmt"
	"time"
)

// ExtractionResult is the output of one method for one document.
type ExtractionResult struct {
	// Method produced this result.
	Method Method

	// Text is the extracted text or markdown. For failures it holds
	// a human-readable error indicator.
	Text string

	// Err is set when the method failed.
	Err error

	// Cached is true when the text was read from the cache.
	Cached bool

	// Duration is how long the method took, including cache lookups.
	Duration time.Duration
}

// Failed returns true if the method did not produce a result.
func (r ExtractionResult) Failed() bool {
	return r.Err != nil
}

// FailedResult builds the result recorded for a method that errored.
func FailedResult(m Method, err error) ExtractionResult {
	return ExtractionResult{
		Method: m,
		Text:   fmt.Sprintf("Extraction failed: %v", err),
		Err:    err,
	}
}

// ResultSet is the complete collection of results for one document.
// It is immutable and only exists once every method has finished.
type ResultSet struct {
	id        string
	document  Document
	results   map[Method]ExtractionResult
	createdAt time.Time
}

// NewResultSet assembles a result set. Every extraction method must be present.
func NewResultSet(id string, doc Document, results []ExtractionResult) (*ResultSet, error) {
	byMethod := make(map[Method]ExtractionResult, len(results))
	for _, r := range results {
		if !r.Method.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, r.Method)
		}
		byMethod[r.Method] = r
	}
	for _, m := range AllMethods() {
		if _, ok := byMethod[m]; !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrIncompleteResultSet, m.Label())
		}
	}

	content := make([]byte, len(doc.Content))
	copy(content, doc.Content)
	doc.Content = content

	return &ResultSet{
		id:        id,
		document:  doc,
		results:   byMethod,
		createdAt: time.Now(),
	}, nil
}

// ID returns the unique identifier of this comparison run.
func (s *ResultSet) ID() string {
	return s.id
}

// Document returns the compared document.
func (s *ResultSet) Document() Document {
	return s.document
}

// CreatedAt returns when the set was assembled.
func (s *ResultSet) CreatedAt() time.Time {
	return s.createdAt
}

// Len returns the number of entries, including the original document.
func (s *ResultSet) Len() int {
	return len(s.results) + 1
}

// Methods returns the entries in display order, ending with the original.
func (s *ResultSet) Methods() []Method {
	return append(AllMethods(), MethodOriginal)
}

// Labels returns the display names in display order.
func (s *ResultSet) Labels() []string {
	methods := s.Methods()
	labels := make([]string, len(methods))
	for i, m := range methods {
		labels[i] = m.Label()
	}
	return labels
}

// Result returns the result for an extraction method.
func (s *ResultSet) Result(m Method) (ExtractionResult, bool) {
	r, ok := s.results[m]
	return r, ok
}

// Results returns the extraction results in display order.
func (s *ResultSet) Results() []ExtractionResult {
	out := make([]ExtractionResult, 0, len(s.results))
	for _, m := range AllMethods() {
		out = append(out, s.results[m])
	}
	return out
}

// Original returns a copy of the raw document bytes.
func (s *ResultSet) Original() []byte {
	out := make([]byte, len(s.document.Content))
	copy(out, s.document.Content)
	return out
}

// Failures returns the number of methods that errored.
func (s *ResultSet) Failures() int {
	n := 0
	for _, r := range s.results {
		if r.Failed() {
			n++
		}
	}
	return n
}
