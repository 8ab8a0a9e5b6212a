package outline

import "errors"

// Errors returned by extraction. Each is wrapped together with its cause,
// so callers test for them with errors.Is.
var (
	ErrDocumentLoad       = errors.New("failed to load the document")
	ErrMissingRoot        = errors.New("missing or invalid Root in trailer")
	ErrInvalidCatalog     = errors.New("catalog object is not a dictionary")
	ErrInvalidOutlines    = errors.New("outlines object is not found or invalid")
	ErrInvalidOutlineRoot = errors.New("outline root dictionary is invalid")
	ErrExtractTitle       = errors.New("failed to extract title")
	ErrFindFirstChild     = errors.New("failed to find first child node")
	ErrFindNextSibling    = errors.New("failed to find next sibling node")
	ErrDecodeUTF16        = errors.New("failed to decode bytes as UTF-16BE")
	ErrSerialization      = errors.New("output serialization failed")
	ErrCycle              = errors.New("outline contains a reference loop")
	ErrDepthExceeded      = errors.New("outline nesting too deep")
)
