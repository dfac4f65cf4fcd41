// Package geofind locates information inside an analyzed document using
// geometry rather than fixed coordinates.
//
// The package builds a query-ready index over a Textract block list with the
// geometry denormalized to a target pixel scale, then lets a caller search
// for anchor phrases with fuzzy text matching, carve out rectangular areas of
// a page (typically bounded by two anchors), and pull out the key/value pairs
// whose keys fall inside such an area. Extracted pairs can be re-labeled
// non-destructively by appending "virtual" key blocks with hierarchical
// names, which flow back out with the block list to downstream consumers.
//
// Main Types:
//
// - Index: page-indexed view over a document with pre-linked key/value pairs
// - Word: denormalized text element with pixel-space coordinates
// - Area: page-scoped rectangle answering containment queries
// - PhraseMatch: scored result of an approximate phrase search
//
// Main Operations:
//
// - NewIndex: build the index for a document at a given page width/height
// - Index.FindPhrase: ranked fuzzy phrase search on a page
// - Index.ElementsIn: elements whose centers fall inside an area
// - Index.FormFieldsIn: key/value pairs scoped to an area
// - Index.AddVirtualKey: non-destructive re-keying of an existing pair
//
// Containment policy: an element is inside an area when its bounding box
// CENTER lies strictly within the area on both axes. Elements straddling an
// area boundary are included or excluded by where their center falls.
//
// The index is safe for concurrent reads. AddVirtualKey mutates the
// underlying document and must be serialized by the caller; the new block
// becomes visible to queries after Refresh.
package geofind

import (
	"github.com/sirupsen/logrus"
)

// log is the package logging entry; callers control level and output
// through the standard logrus logger.
var log = logrus.StandardLogger().WithField("component", "geofind")

// DefaultMinTextDistance is the similarity threshold phrase searches use
// when the caller has no stricter requirement.
const DefaultMinTextDistance = 0.9
