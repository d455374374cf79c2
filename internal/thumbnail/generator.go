package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/workers"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Variant is one generated size of a source image, re-encoded as JPEG.
type Variant struct {
	Size Size
	Data []byte
}

// Generator derives the fixed set of JPEG size variants from a source
// image held in memory.
type Generator struct {
	maxConcurrent int
}

// NewGenerator returns a Generator. Per-variant encodes run concurrently,
// capped at the CPU-bound worker count.
func NewGenerator() *Generator {
	return &Generator{maxConcurrent: workers.ForCPU(len(Sizes))}
}

// Generate decodes source once and produces one Variant per entry in
// sizes, in order. Non-image input fails before any variant is encoded.
// Variants are independent: encoding runs concurrently and a failing
// size does not stop its siblings, though any failure fails the call.
func (g *Generator) Generate(ctx context.Context, source []byte, sizes []Size) ([]Variant, error) {
	img, err := g.decode(source)
	if err != nil {
		return nil, err
	}

	variants := make([]Variant, len(sizes))
	failures := make([]error, len(sizes))

	sem := make(chan struct{}, g.maxConcurrent)
	var wg sync.WaitGroup
	for i, size := range sizes {
		wg.Add(1)
		go func(i int, size Size) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				failures[i] = ctx.Err()
				return
			}

			out := img
			if size.Width > 0 {
				// Zero height preserves the aspect ratio.
				out = imaging.Resize(img, size.Width, 0, imaging.Lanczos)
			}

			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
				failures[i] = fmt.Errorf("encode %s variant: %w", size.Label, err)
				return
			}
			variants[i] = Variant{Size: size, Data: buf.Bytes()}
		}(i, size)
	}
	wg.Wait()

	if err := errors.Join(failures...); err != nil {
		return nil, err
	}
	return variants, nil
}

// decode tries the in-process decoders first, then falls back to ffmpeg
// for formats they reject. A payload nothing can decode is not an image.
func (g *Generator) decode(source []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(source))
	if err == nil {
		logging.Debug("Generator: decoded %s source (%d bytes)", format, len(source))
		return img, nil
	}

	logging.Debug("Generator: standard decode failed (%v), trying ffmpeg fallback", err)

	img, ffErr := decodeWithFFmpeg(source)
	if ffErr != nil {
		logging.Debug("Generator: ffmpeg fallback failed: %v", ffErr)
		return nil, fmt.Errorf("decode source image: %w", errs.ErrUploadFileNotImage)
	}
	return img, nil
}

// decodeWithFFmpeg stages the source in a temporary file, since ffmpeg
// needs a real path, and decodes the PNG frame it emits. The staging
// directory is removed on every exit path.
func decodeWithFFmpeg(source []byte) (image.Image, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "thumbnail-decode-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logging.Warn("Generator: failed to remove staging dir %s: %v", tmpDir, err)
		}
	}()

	srcPath := filepath.Join(tmpDir, "source")
	if err := os.WriteFile(srcPath, source, 0o600); err != nil {
		return nil, fmt.Errorf("stage source file: %w", err)
	}

	cmd := exec.Command(ffmpegPath,
		"-i", srcPath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode ffmpeg output: %w", err)
	}
	return img, nil
}
