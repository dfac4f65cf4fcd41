package geofind

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

// WordType classifies the denormalized elements held by the index
type WordType string

// Word types. Phrase elements are synthesized by phrase searches and never
// come from the recognizer directly.
const (
	WordTypeWord             WordType = "word"
	WordTypeLine             WordType = "line"
	WordTypePhrase           WordType = "phrase"
	WordTypeKey              WordType = "key"
	WordTypeValue            WordType = "value"
	WordTypeSelectionElement WordType = "selection_element"
)

// Word is the denormalized view of one block: normalized text plus
// pixel-space coordinates scaled to the index's page width and height.
type Word struct {
	ID           string
	Type         WordType
	Text         string // normalized (see NormalizeText)
	OriginalText string
	Confidence   float64
	Page         int

	XMin, YMin int
	XMax, YMax int

	ChildIDs  []string // constituent element ids (lines, keys, values)
	Reference string   // value block id for key elements
}

// Width returns the pixel width of the word's box
func (w *Word) Width() int { return w.XMax - w.XMin }

// Height returns the pixel height of the word's box
func (w *Word) Height() int { return w.YMax - w.YMin }

// BoxArea returns the pixel area of the word's box
func (w *Word) BoxArea() int { return w.Width() * w.Height() }

// Center returns the centroid of the word's box
func (w *Word) Center() (x, y float64) {
	return float64(w.XMin+w.XMax) / 2, float64(w.YMin+w.YMax) / 2
}

// EuclidDistance returns the distance between two word centroids
func (w *Word) EuclidDistance(other *Word) float64 {
	x1, y1 := w.Center()
	x2, y2 := other.Center()
	return math.Hypot(x2-x1, y2-y1)
}

// CombineWords merges several words into one phrase element: union bounding
// box, texts joined with spaces, mean confidence, freshly allocated id.
// All words must belong to the same page.
func CombineWords(words []*Word) *Word {
	if len(words) == 0 {
		return nil
	}
	combined := &Word{
		ID:   uuid.NewString(),
		Type: WordTypePhrase,
		Page: words[0].Page,
		XMin: words[0].XMin,
		YMin: words[0].YMin,
		XMax: words[0].XMax,
		YMax: words[0].YMax,
	}
	var texts, originals []string
	var confidence float64
	for _, w := range words {
		texts = append(texts, w.Text)
		if w.OriginalText != "" {
			originals = append(originals, w.OriginalText)
		}
		confidence += w.Confidence
		combined.XMin = min(combined.XMin, w.XMin)
		combined.YMin = min(combined.YMin, w.YMin)
		combined.XMax = max(combined.XMax, w.XMax)
		combined.YMax = max(combined.YMax, w.YMax)
		combined.ChildIDs = append(combined.ChildIDs, w.ID)
	}
	combined.Text = strings.Join(texts, " ")
	combined.OriginalText = strings.Join(originals, " ")
	combined.Confidence = confidence / float64(len(words))
	return combined
}

var (
	nonAlphanumRegexp = regexp.MustCompile(`[^a-zA-Z 0-9]+`)
	digitRegexp       = regexp.MustCompile(`[0-9]`)
)

// NormalizeText lowercases and whitespace-normalizes a string for matching.
// Tokens without digits are additionally stripped of punctuation; tokens
// containing digits are most likely values ("1:", "$100") and keep their
// characters so they stay distinguishable.
func NormalizeText(s string) string {
	var tokens []string
	for _, field := range strings.Fields(s) {
		var token string
		if digitRegexp.MatchString(field) {
			token = strings.ToLower(field)
		} else {
			token = strings.ToLower(nonAlphanumRegexp.ReplaceAllString(field, ""))
		}
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ")
}

// Similarity scores two strings in [0,1] using character-level edit distance
// normalized by the longer string's length. Equal strings score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longer)
}

// TextSimilarity scores two strings after normalizing both, which makes the
// comparison case-insensitive and tolerant to minor recognition noise.
func TextSimilarity(a, b string) float64 {
	return Similarity(NormalizeText(a), NormalizeText(b))
}
