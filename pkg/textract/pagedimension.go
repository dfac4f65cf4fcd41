package textract

// customPageDimensionKey is the Custom entry carrying page pixel dimensions,
// matching the shape downstream consumers expect:
//
//	{"PageDimension": {"doc_width": 1549.0, "doc_height": 370.0}}
const customPageDimensionKey = "PageDimension"

// PageDimension is the pixel size of a rendered page
type PageDimension struct {
	Width  float64 `json:"doc_width"`
	Height float64 `json:"doc_height"`
}

// SetPageDimension stamps the page pixel size onto the block's Custom data
func (b *Block) SetPageDimension(dim PageDimension) {
	if b.Custom == nil {
		b.Custom = make(map[string]interface{})
	}
	b.Custom[customPageDimensionKey] = map[string]interface{}{
		"doc_width":  dim.Width,
		"doc_height": dim.Height,
	}
}

// PageDimension reads the page pixel size from the block's Custom data
func (b *Block) PageDimension() (PageDimension, bool) {
	raw, ok := b.Custom[customPageDimensionKey]
	if !ok {
		return PageDimension{}, false
	}
	entry, ok := raw.(map[string]interface{})
	if !ok {
		return PageDimension{}, false
	}
	width, wok := entry["doc_width"].(float64)
	height, hok := entry["doc_height"].(float64)
	if !wok || !hok {
		return PageDimension{}, false
	}
	return PageDimension{Width: width, Height: height}, true
}
