package geofind

import (
	"sort"
	"strings"
)

// windowSlack widens the sliding word window beyond the query's word count,
// absorbing recognizer splits and merges of adjacent words.
const windowSlack = 2

// PhraseMatch is one scored result of a phrase search: a synthesized phrase
// element (union bounding box of the contributing words, mean confidence)
// plus its similarity score in [0,1].
type PhraseMatch struct {
	*Word
	Score float64
}

// phraseCandidate is an internal scoring unit during a search. wordIDs are
// the underlying WORD ids contributing to the candidate, used to collapse
// overlapping candidates onto their best-scoring representative.
type phraseCandidate struct {
	match   *Word
	score   float64
	wordIDs []string
}

// FindPhrase searches one page for approximate occurrences of a phrase and
// returns them ordered by descending score, ties broken by reading order.
// Candidates are the page's lines plus sliding windows over its word
// sequence; each is scored with normalized edit-distance similarity against
// the case-folded query. Candidates scoring below minTextDistance are
// dropped, so a threshold of 1.0 degenerates to exact (normalized) matching.
// An empty result means nothing cleared the threshold; it is not an error.
func (ix *Index) FindPhrase(page int, phrase string, minTextDistance float64) []PhraseMatch {
	query := NormalizeText(phrase)
	if query == "" {
		return nil
	}
	pi := ix.pageIndex(page)
	if pi == nil {
		return nil
	}

	var candidates []phraseCandidate

	// Whole lines as given by the recognizer.
	for _, line := range pi.lines {
		score := Similarity(line.Text, query)
		if score < minTextDistance {
			continue
		}
		candidates = append(candidates, phraseCandidate{
			match:   CombineWords([]*Word{line}),
			score:   score,
			wordIDs: lineWordIDs(line),
		})
	}

	// Sliding windows over the word sequence, sizes up to the query's word
	// count plus slack.
	maxWindow := len(strings.Fields(query)) + windowSlack
	for size := 1; size <= maxWindow && size <= len(pi.words); size++ {
		for start := 0; start+size <= len(pi.words); start++ {
			window := pi.words[start : start+size]
			score := Similarity(windowText(window), query)
			if score < minTextDistance {
				continue
			}
			ids := make([]string, len(window))
			for i, w := range window {
				ids[i] = w.ID
			}
			candidates = append(candidates, phraseCandidate{
				match:   CombineWords(window),
				score:   score,
				wordIDs: ids,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].match.YMin != candidates[j].match.YMin {
			return candidates[i].match.YMin < candidates[j].match.YMin
		}
		return candidates[i].match.XMin < candidates[j].match.XMin
	})

	// Overlapping candidates (a line and the window covering the same words,
	// or windows shifted by a word) keep only the best-scoring one.
	used := make(map[string]bool)
	var matches []PhraseMatch
	for _, c := range candidates {
		overlap := false
		for _, id := range c.wordIDs {
			if used[id] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		for _, id := range c.wordIDs {
			used[id] = true
		}
		matches = append(matches, PhraseMatch{Word: c.match, Score: c.score})
	}

	log.WithFields(map[string]interface{}{
		"phrase":  phrase,
		"page":    page,
		"matches": len(matches),
	}).Debug("phrase search")
	return matches
}

// windowText joins the normalized text of a word window
func windowText(words []*Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// lineWordIDs returns the ids identifying a line candidate's words for
// overlap detection; lines without child edges count as their own unit.
func lineWordIDs(line *Word) []string {
	if len(line.ChildIDs) > 0 {
		return line.ChildIDs
	}
	return []string{line.ID}
}

// Coordinate names one edge of a bounding box
type Coordinate int

// Box edges selectable through PhraseCoordinate
const (
	CoordinateXMin Coordinate = iota
	CoordinateXMax
	CoordinateYMin
	CoordinateYMax
)

// PhraseCoordinate requests one box edge of a phrase's occurrence. A zero
// MinTextDistance falls back to DefaultMinTextDistance.
type PhraseCoordinate struct {
	Phrase          string
	Coordinate      Coordinate
	MinTextDistance float64
}

// CoordinateValues resolves the requested edge from the first candidate
// phrase that matches anywhere on the page, returning the edge value of
// every occurrence. Listing several candidates makes extraction templates
// resilient to wording variations across form revisions. When none of the
// candidates match, it fails with *NoPhraseFoundError.
func (ix *Index) CoordinateValues(page int, candidates []PhraseCoordinate) ([]int, error) {
	for _, pc := range candidates {
		minDistance := pc.MinTextDistance
		if minDistance == 0 {
			minDistance = DefaultMinTextDistance
		}
		matches := ix.FindPhrase(page, pc.Phrase, minDistance)
		if len(matches) == 0 {
			continue
		}
		values := make([]int, len(matches))
		for i, m := range matches {
			switch pc.Coordinate {
			case CoordinateXMin:
				values[i] = m.XMin
			case CoordinateXMax:
				values[i] = m.XMax
			case CoordinateYMin:
				values[i] = m.YMin
			case CoordinateYMax:
				values[i] = m.YMax
			}
		}
		if len(values) > 1 {
			log.WithField("phrase", pc.Phrase).Warnf("phrase is not unique on page %d: %d occurrences", page, len(values))
		}
		return values, nil
	}

	phrases := make([]string, len(candidates))
	for i, pc := range candidates {
		phrases[i] = pc.Phrase
	}
	return nil, &NoPhraseFoundError{Phrases: phrases}
}
