// Package imposition computes sheet ordering for manual duplex booklet printing.
//
// A sheet holds four page positions, two on each side. Sheets nest into a
// single signature: the outermost sheet carries the first and last pages and
// each following sheet moves one layer towards the centre. The front sides
// of all sheets are printed in one pass, the stack is re-inserted, and the
// back sides are printed in a second pass.
package imposition

import (
	"errors"
	"strconv"
	"strings"
)

// PositionsPerSheet is the number of page slots on one folded sheet.
const PositionsPerSheet = 4

// ErrInvalidArgument is returned by Compute for a negative page count.
var ErrInvalidArgument = errors.New("imposition: page count must not be negative")

// Layout is the result of imposing a document of Pages pages.
type Layout struct {
	Pages  int   `json:"pages"`
	Sheets int   `json:"sheets"`
	Blanks int   `json:"blanks"`
	Front  []int `json:"front"`
	Back   []int `json:"back"`
}

// SheetCount returns ceil(pages/4), or 0 for pages <= 0.
func SheetCount(pages int) int {
	if pages <= 0 {
		return 0
	}
	return (pages + PositionsPerSheet - 1) / PositionsPerSheet
}

// BlankCount returns how many physical positions carry no page.
func BlankCount(pages int) int {
	return SheetCount(pages)*PositionsPerSheet - max(pages, 0)
}

// Passes returns the page order for the front pass and the back pass.
// Blank positions (numbers above totalPages) are left out; they still occupy
// a slot on the sheet. totalPages <= 0 yields two empty sequences.
func Passes(totalPages int) (front, back []int) {
	sheets := SheetCount(totalPages)
	last := sheets * PositionsPerSheet

	front = make([]int, 0, sheets*2)
	back = make([]int, 0, sheets*2)
	keep := func(dst []int, pages ...int) []int {
		for _, p := range pages {
			if p <= totalPages {
				dst = append(dst, p)
			}
		}
		return dst
	}
	for s := 0; s < sheets; s++ {
		front = keep(front, last-2*s, 1+2*s)
		back = keep(back, 2+2*s, last-1-2*s)
	}
	return front, back
}

// Compute imposes totalPages pages and reports sheet and blank counts.
func Compute(totalPages int) (Layout, error) {
	if totalPages < 0 {
		return Layout{}, ErrInvalidArgument
	}
	front, back := Passes(totalPages)
	return Layout{
		Pages:  totalPages,
		Sheets: SheetCount(totalPages),
		Blanks: BlankCount(totalPages),
		Front:  front,
		Back:   back,
	}, nil
}

// Join renders pages as a comma-separated list, e.g. "8,1,6,3".
func Join(pages []int) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// FrontList is Join(l.Front).
func (l Layout) FrontList() string { return Join(l.Front) }

// BackList is Join(l.Back).
func (l Layout) BackList() string { return Join(l.Back) }
