package geofind

import (
	"fmt"
	"sort"
)

// lineSlack is the vertical tolerance in pixels used when deciding whether
// elements sit on the same visual line.
const lineSlack = 5

// Point is a pixel-space coordinate
type Point struct {
	X float64
	Y float64
}

// Area is a page-scoped rectangle used to scope queries. Coordinates live in
// the same pixel space as the index geometry.
type Area struct {
	TopLeft     Point
	BottomRight Point
	Page        int
}

// NewArea constructs an area, failing with *InvalidAreaError if the corners
// violate the ordering invariant.
func NewArea(topLeft, bottomRight Point, page int) (Area, error) {
	if topLeft.X > bottomRight.X || topLeft.Y > bottomRight.Y {
		return Area{}, &InvalidAreaError{TopLeft: topLeft, BottomRight: bottomRight}
	}
	return Area{TopLeft: topLeft, BottomRight: bottomRight, Page: page}, nil
}

// AreaOf returns the union area of the given words, which must all belong
// to the same page.
func AreaOf(words ...*Word) (Area, error) {
	if len(words) == 0 {
		return Area{}, fmt.Errorf("at least one word is required")
	}
	area := Area{
		TopLeft:     Point{X: float64(words[0].XMin), Y: float64(words[0].YMin)},
		BottomRight: Point{X: float64(words[0].XMax), Y: float64(words[0].YMax)},
		Page:        words[0].Page,
	}
	for _, w := range words[1:] {
		if w.Page != area.Page {
			return Area{}, fmt.Errorf("words span pages %d and %d, all must be on one page", area.Page, w.Page)
		}
		area.TopLeft.X = minf(area.TopLeft.X, float64(w.XMin))
		area.TopLeft.Y = minf(area.TopLeft.Y, float64(w.YMin))
		area.BottomRight.X = maxf(area.BottomRight.X, float64(w.XMax))
		area.BottomRight.Y = maxf(area.BottomRight.Y, float64(w.YMax))
	}
	return area, nil
}

// Intersect returns the overlap of two areas on the same page. Disjoint
// areas yield an empty area that contains nothing.
func Intersect(a, b Area) (Area, error) {
	if a.Page != b.Page {
		return Area{}, fmt.Errorf("areas are on different pages: %d and %d", a.Page, b.Page)
	}
	out := Area{
		TopLeft: Point{
			X: maxf(a.TopLeft.X, b.TopLeft.X),
			Y: maxf(a.TopLeft.Y, b.TopLeft.Y),
		},
		BottomRight: Point{
			X: minf(a.BottomRight.X, b.BottomRight.X),
			Y: minf(a.BottomRight.Y, b.BottomRight.Y),
		},
		Page: a.Page,
	}
	if out.BottomRight.X < out.TopLeft.X {
		out.BottomRight.X = out.TopLeft.X
	}
	if out.BottomRight.Y < out.TopLeft.Y {
		out.BottomRight.Y = out.TopLeft.Y
	}
	return out, nil
}

// Size returns the area in square pixels
func (a Area) Size() float64 {
	return (a.BottomRight.X - a.TopLeft.X) * (a.BottomRight.Y - a.TopLeft.Y)
}

// Contains reports whether the word's centroid lies strictly inside the
// area. This is the fixed containment policy of the package: an element
// straddling the boundary belongs to the side its center falls on, and a
// zero-size area contains nothing.
func (a Area) Contains(w *Word) bool {
	if a.Page != 0 && w.Page != a.Page {
		return false
	}
	cx, cy := w.Center()
	return cx > a.TopLeft.X && cx < a.BottomRight.X &&
		cy > a.TopLeft.Y && cy < a.BottomRight.Y
}

// ElementsIn returns the elements of the requested types contained in the
// area, in reading order. With no types given all element types are
// considered. An empty result is a valid outcome, not an error.
func (ix *Index) ElementsIn(area Area, types ...WordType) []*Word {
	var result []*Word
	for page := 1; page <= len(ix.pages); page++ {
		if area.Page != 0 && page != area.Page {
			continue
		}
		for _, w := range ix.Words(page, types...) {
			if area.Contains(w) {
				result = append(result, w)
			}
		}
	}
	sortReadingOrder(result)
	return result
}

// LinesIn returns the lines contained in the area, top to bottom
func (ix *Index) LinesIn(area Area) []*Word {
	return ix.ElementsIn(area, WordTypeLine)
}

// WordsBelow returns elements of the given type whose horizontal center
// falls within the anchor's x-range and which start below the anchor,
// nearest first. A limit of 0 returns all of them.
func (ix *Index) WordsBelow(anchor Area, wordType WordType, limit int) []*Word {
	var result []*Word
	for _, w := range ix.Words(anchor.Page, wordType) {
		cx, _ := w.Center()
		if cx > anchor.TopLeft.X && cx < anchor.BottomRight.X && float64(w.YMin) > anchor.BottomRight.Y {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].YMin < result[j].YMin })
	return limitWords(result, limit)
}

// WordsRightOf returns elements of the given type on the anchor's visual
// line (within lineSlack) that start right of it, nearest first. A limit of
// 0 returns all of them.
func (ix *Index) WordsRightOf(anchor Area, wordType WordType, limit int) []*Word {
	top := anchor.TopLeft.Y - lineSlack
	if top < 0 {
		top = 0
	}
	bottom := anchor.BottomRight.Y + lineSlack

	var result []*Word
	for _, w := range ix.Words(anchor.Page, wordType) {
		_, cy := w.Center()
		if cy > top && cy < bottom && float64(w.XMin) > anchor.BottomRight.X {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].XMin < result[j].XMin })
	return limitWords(result, limit)
}

// WordsBetween returns elements of the requested types lying horizontally
// between two words on the same visual line, left to right.
func (ix *Index) WordsBetween(left, right *Word, types ...WordType) []*Word {
	top := float64(min(left.YMin, right.YMin) - lineSlack)
	if top < 0 {
		top = 0
	}
	bottom := float64(max(left.YMax, right.YMax) + lineSlack)

	var result []*Word
	for _, w := range ix.Words(left.Page, types...) {
		_, cy := w.Center()
		if cy > top && cy < bottom && w.XMin > left.XMax && w.XMax < right.XMin {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].XMin < result[j].XMin })
	return result
}

// SelectionBoxesLeftOf returns selection elements on the word's visual line
// that end before it starts, left to right. A limit of 0 returns all.
func (ix *Index) SelectionBoxesLeftOf(word *Word, limit int) []*Word {
	top := float64(word.YMin - lineSlack)
	if top < 0 {
		top = 0
	}
	bottom := float64(word.YMax + lineSlack)

	var result []*Word
	for _, w := range ix.Words(word.Page, WordTypeSelectionElement) {
		_, cy := w.Center()
		if cy > top && cy < bottom && w.XMax < word.XMin {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].XMin < result[j].XMin })
	return limitWords(result, limit)
}

func limitWords(words []*Word, limit int) []*Word {
	if limit > 0 && len(words) > limit {
		return words[:limit]
	}
	return words
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
