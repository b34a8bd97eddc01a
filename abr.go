// Package abr decodes Adobe Brush (.abr) files into named grayscale-alpha
// bitmaps. It supports the flat version 1/2 format and the descriptor-based
// version 6/7/10 format written by Photoshop and compatible tools.
package abr

import (
	"fmt"
	"io"
	"os"
)

// ABR represents an Adobe Brush file.
type ABR struct {
	file    *File
	closer  io.Closer
	version int16
	brushes *BrushCollection
	parsed  bool
}

// New creates a new ABR instance from a file path.
func New(filename string) (*ABR, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	file, err := newFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &ABR{file: file, closer: f}, nil
}

// NewReader creates a new ABR instance from a seekable byte stream.
func NewReader(r io.ReadSeeker) (*ABR, error) {
	file, err := newFile(r)
	if err != nil {
		return nil, err
	}
	return &ABR{file: file}, nil
}

// Open opens an ABR file, parses it, and executes the provided function.
// The file handle is released when Open returns, regardless of outcome.
func Open(filename string, fn func(*ABR) error) error {
	a, err := New(filename)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Parse(); err != nil {
		return err
	}

	return fn(a)
}

// Decode parses a complete ABR stream and returns the brush collection.
// The caller owns the collection and is responsible for disposing it.
func Decode(r io.ReadSeeker) (*BrushCollection, error) {
	a, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	if err := a.Parse(); err != nil {
		return nil, err
	}
	return a.Brushes(), nil
}

// Close closes the underlying file, if New opened one.
func (a *ABR) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Parse decodes the whole file. Structural errors (unsupported version,
// truncated stream, unknown descriptor types) abort the load; individual
// malformed brushes are silently skipped.
func (a *ABR) Parse() error {
	if a.parsed {
		return nil
	}

	version, err := a.file.ReadInt16()
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	a.version = version

	brushes := &BrushCollection{}
	switch version {
	case 1, 2:
		if err := decodeLegacyBrushes(a.file, version, brushes); err != nil {
			return fmt.Errorf("failed to decode v%d brushes: %w", version, err)
		}
	case 6, 7, 10:
		if err := decodeSampledBrushes(a.file, brushes); err != nil {
			return fmt.Errorf("failed to decode v%d brushes: %w", version, err)
		}
	default:
		return formatErrorf("unsupported ABR version %d", version)
	}

	a.brushes = brushes
	a.parsed = true

	logger().Debug("abr parsed", "version", version, "brushes", brushes.Len())
	return nil
}

// Parsed returns whether the file has been parsed.
func (a *ABR) Parsed() bool {
	return a.parsed
}

// Version returns the major format version read from the header.
func (a *ABR) Version() int16 {
	return a.version
}

// Brushes returns the decoded brush collection, or nil before Parse.
func (a *ABR) Brushes() *BrushCollection {
	return a.brushes
}
