// Package thumbnail derives and manages the size variants of item
// thumbnails.
//
// The Generator decodes a source image once and re-encodes it as JPEG
// in four widths: small (200px), medium (400px), large (600px) and
// original (no resize). Decoding understands JPEG, PNG, GIF and WebP
// natively and falls back to ffmpeg for anything else, so video
// posters and exotic formats work wherever ffmpeg is installed.
//
// The Service owns the orchestration: uploads, copies and deletes fan
// out over the variant set concurrently and every sibling is attempted
// even when one fails. Once an upload has passed validation and
// generation, variant-store failures do not fail the operation; a
// missing variant stays absent until regenerated.
package thumbnail
