package abr

import "image"

// Brush is a single decoded brush: a display name and a premultiplied
// grayscale-alpha bitmap (black ink, alpha from the sampled data).
type Brush struct {
	name    string
	spacing int
	img     *image.RGBA
}

// Name returns the brush display name. Version 1 brushes are unnamed and
// return the empty string.
func (b *Brush) Name() string {
	return b.name
}

// Spacing returns the stroke spacing percentage recorded for legacy
// sampled brushes, or 0 where the format does not carry one.
func (b *Brush) Spacing() int {
	return b.spacing
}

// Width returns the bitmap width in pixels.
func (b *Brush) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dx()
}

// Height returns the bitmap height in pixels.
func (b *Brush) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Rect.Dy()
}

// BrushCollection is an ordered list of decoded brushes. The collection
// exclusively owns every contained bitmap: Dispose releases them all
// exactly once, and any access after Dispose fails with ErrDisposed.
type BrushCollection struct {
	brushes  []*Brush
	disposed bool
}

// Len returns the number of brushes. Len is safe to call after Dispose.
func (c *BrushCollection) Len() int {
	return len(c.brushes)
}

// At returns the brush at index i.
func (c *BrushCollection) At(i int) (*Brush, error) {
	if c.disposed {
		return nil, ErrDisposed
	}
	return c.brushes[i], nil
}

// Image returns the bitmap of the brush at index i.
func (c *BrushCollection) Image(i int) (*image.RGBA, error) {
	if c.disposed {
		return nil, ErrDisposed
	}
	return c.brushes[i].img, nil
}

// Brushes returns the underlying slice for iteration.
func (c *BrushCollection) Brushes() ([]*Brush, error) {
	if c.disposed {
		return nil, ErrDisposed
	}
	return c.brushes, nil
}

// Dispose releases every contained bitmap. The first call frees each
// image exactly once; further calls are no-ops. The collection is
// unusable afterwards.
func (c *BrushCollection) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	for _, b := range c.brushes {
		b.img = nil
	}
}

// Disposed reports whether Dispose has been called.
func (c *BrushCollection) Disposed() bool {
	return c.disposed
}

func (c *BrushCollection) add(b *Brush) {
	c.brushes = append(c.brushes, b)
}
