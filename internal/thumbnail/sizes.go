package thumbnail

// SizeLabel identifies one of the fixed thumbnail resolutions.
type SizeLabel string

const (
	// SizeSmall is the 200px-wide variant.
	SizeSmall SizeLabel = "small"
	// SizeMedium is the 400px-wide variant.
	SizeMedium SizeLabel = "medium"
	// SizeLarge is the 600px-wide variant.
	SizeLarge SizeLabel = "large"
	// SizeOriginal is the pass-through re-encode (no resize).
	SizeOriginal SizeLabel = "original"
)

// Size pairs a label with its target width. A zero width means the
// source dimensions are kept and the image is only re-encoded.
type Size struct {
	Label SizeLabel
	Width int
}

// Sizes is the fixed, ordered set of variants every operation fans out
// over. Four entries; every put/copy/delete loop iterates exactly this.
var Sizes = []Size{
	{Label: SizeSmall, Width: 200},
	{Label: SizeMedium, Width: 400},
	{Label: SizeLarge, Width: 600},
	{Label: SizeOriginal, Width: 0},
}

const (
	// Mimetype is the content type of every stored thumbnail.
	Mimetype = "image/jpeg"

	// jpegQuality matches the encode quality used for all variants.
	jpegQuality = 80
)

// ValidSize reports whether label names one of the fixed size variants.
func ValidSize(label string) bool {
	switch SizeLabel(label) {
	case SizeSmall, SizeMedium, SizeLarge, SizeOriginal:
		return true
	}
	return false
}
