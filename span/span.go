// Package span defines the half-open character span every annotation is
// positioned by.
package span

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when a span has a negative start or start > end.
var ErrInvalid = errors.New("invalid span")

// Span is a half-open [Start, End) range of character offsets.
//
// Spans are ordered by (Start, End).
type Span struct {
	Start int
	End   int
}

// New returns the span [start, end) or ErrInvalid.
func New(start, end int) (Span, error) {
	s := Span{Start: start, End: end}
	if err := s.Validate(); err != nil {
		return Span{}, err
	}
	return s, nil
}

// Must is like New but panics on an invalid span.
func Must(start, end int) Span {
	s, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports whether 0 <= Start <= End.
func (s Span) Validate() error {
	if s.Start < 0 || s.Start > s.End {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalid, s.Start, s.End)
	}
	return nil
}

// Within reports whether s lies inside [0, length].
func (s Span) Within(length int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= length
}

// Len returns the number of characters covered.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether the span covers no characters.
func (s Span) IsEmpty() bool { return s.End <= s.Start }

// Overlaps reports whether s and o intersect. An empty span overlaps only
// spans that strictly contain its position.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Encloses reports whether o lies entirely inside s.
func (s Span) Encloses(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Compare orders spans by start, then end.
func (s Span) Compare(o Span) int {
	switch {
	case s.Start < o.Start:
		return -1
	case s.Start > o.Start:
		return 1
	case s.End < o.End:
		return -1
	case s.End > o.End:
		return 1
	}
	return 0
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// String returns "[start, end)".
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}
