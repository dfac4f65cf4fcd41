package geofind

import "fmt"

// MalformedDocumentError reports an inconsistent block structure discovered
// while building the index: a dangling relationship id or a KEY_VALUE_SET
// missing its value target. Structural problems are surfaced at build time;
// no partial index is returned.
type MalformedDocumentError struct {
	BlockID string
	Reason  string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: block %s: %s", e.BlockID, e.Reason)
}

// NotFoundError reports a lookup of a block identifier absent from the index
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("block %s not found", e.ID)
}

// InvalidAreaError reports an area whose corners violate the ordering
// invariant (top-left must not lie below or right of bottom-right)
type InvalidAreaError struct {
	TopLeft     Point
	BottomRight Point
}

func (e *InvalidAreaError) Error() string {
	return fmt.Sprintf("invalid area: top-left %v must not exceed bottom-right %v", e.TopLeft, e.BottomRight)
}

// NoPhraseFoundError reports that none of the fallback phrases of a
// coordinate lookup matched anywhere on the page
type NoPhraseFoundError struct {
	Phrases []string
}

func (e *NoPhraseFoundError) Error() string {
	return fmt.Sprintf("no phrase found for any of %q", e.Phrases)
}
