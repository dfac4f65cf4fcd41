// Package textract models the block list returned by the Amazon Textract
// AnalyzeDocument API and provides parsing from the raw JSON response.
//
// A Textract response is a flat collection of blocks. Every block carries a
// unique identifier, a type tag (PAGE, LINE, WORD, KEY_VALUE_SET,
// SELECTION_ELEMENT, ...), a bounding box normalized to the page's [0,1]x[0,1]
// space, free text where applicable, a confidence value, and relationship
// edges referencing other block identifiers. PAGE blocks own their content
// through CHILD edges; KEY_VALUE_SET blocks tagged KEY reference their value
// counterpart through a VALUE edge.
//
// The Document type keeps this collection queryable (O(1) lookup by id,
// per-page ordering) and mutable by append only: new blocks may be added to a
// page, existing blocks are never deleted or edited.
package textract
