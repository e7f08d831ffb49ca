package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Decoders register themselves with the image package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	m "sieve.dev/pkg/sieve/internal/model"
)

// ErrUnsupportedFormat is returned when content is not an image format any
// registered decoder understands.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Severity ranks a decoder diagnostic.
type Severity int

const (
	// SeverityInfo is informational and never affects validity.
	SeverityInfo Severity = iota
	// SeverityWarning marks a suspicious file.
	SeverityWarning
	// SeverityError marks a decode problem that did not surface as an error.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "unknown"
}

// Diagnostic is a message produced while decoding one file.
type Diagnostic struct {
	Severity Severity
	Message  string
}

// DiagnosticFunc receives diagnostics for a single Decode call.
type DiagnosticFunc func(Diagnostic)

// ImageDecoder checks whether files decode as images.
type ImageDecoder interface {
	// CanDecode sniffs the content and returns the image format name.
	CanDecode(path m.Path) (string, error)
	// Decode decodes the whole image, reporting diagnostics through report.
	Decode(path m.Path, report DiagnosticFunc) (image.Image, error)
}

var mimeFormats = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

var extensionFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".jpe":  "jpeg",
	".png":  "png",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// LocalImageDecoder decodes images read through a SourceFSAdapter.
type LocalImageDecoder struct {
	fs              SourceFSAdapter
	strictExtension bool
}

// ImageDecoderOption configures a LocalImageDecoder.
type ImageDecoderOption func(*LocalImageDecoder)

// WithStrictExtension raises extension/content mismatches to warnings.
func WithStrictExtension(strict bool) ImageDecoderOption {
	return func(d *LocalImageDecoder) {
		d.strictExtension = strict
	}
}

// NewLocalImageDecoder creates a decoder reading through fs.
func NewLocalImageDecoder(fs SourceFSAdapter, options ...ImageDecoderOption) *LocalImageDecoder {
	d := &LocalImageDecoder{fs: fs}
	for _, option := range options {
		option(d)
	}

	return d
}

// CanDecode detects the content type of path.
func (d *LocalImageDecoder) CanDecode(path m.Path) (string, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect %q: %w", path, err)
	}

	format, ok := formatForMIME(mtype)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}

	return format, nil
}

func formatForMIME(mtype *mimetype.MIME) (string, bool) {
	for mt := mtype; mt != nil; mt = mt.Parent() {
		if format, ok := mimeFormats[mt.String()]; ok {
			return format, true
		}
	}

	return "", false
}

// Decode reads and decodes the image at path. Decoder panics are recovered
// and reported as errors.
func (d *LocalImageDecoder) Decode(path m.Path, report DiagnosticFunc) (img image.Image, err error) {
	if report == nil {
		report = func(Diagnostic) {}
	}

	defer func() {
		if r := recover(); r != nil {
			report(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf("decoder panic: %v", r)})

			img = nil
			err = fmt.Errorf("decode %q: panic: %v", path, r)
		}
	}()

	data, err := d.readAll(path)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode header %q: %w", path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	if img == nil {
		return nil, nil
	}

	bounds := img.Bounds()
	report(Diagnostic{
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("decoded %s %dx%d", format, bounds.Dx(), bounds.Dy()),
	})

	if cfg.Width != bounds.Dx() || cfg.Height != bounds.Dy() {
		report(Diagnostic{
			Severity: SeverityError,
			Message: fmt.Sprintf("header declares %dx%d but decoded %dx%d",
				cfg.Width, cfg.Height, bounds.Dx(), bounds.Dy()),
		})
	}

	d.checkExtension(path, format, report)

	return img, nil
}

func (d *LocalImageDecoder) readAll(path m.Path) ([]byte, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	return data, nil
}

func (d *LocalImageDecoder) checkExtension(path m.Path, format string, report DiagnosticFunc) {
	ext := strings.ToLower(filepath.Ext(string(path)))

	expected, known := extensionFormats[ext]
	if !known || expected == format {
		return
	}

	severity := SeverityInfo
	if d.strictExtension {
		severity = SeverityWarning
	}

	report(Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf("extension %s does not match %s content", ext, format),
	})
}
