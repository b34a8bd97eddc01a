package abr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection(n int) *BrushCollection {
	c := &BrushCollection{}
	for i := 0; i < n; i++ {
		c.add(&Brush{
			name: "brush",
			img:  image.NewRGBA(image.Rect(0, 0, 4, 4)),
		})
	}
	return c
}

func TestBrushCollection_Access(t *testing.T) {
	c := testCollection(3)
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Disposed())

	b, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, "brush", b.Name())
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 4, b.Height())

	img, err := c.Image(1)
	require.NoError(t, err)
	assert.NotNil(t, img)

	list, err := c.Brushes()
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestBrushCollection_DisposeFreesBitmaps(t *testing.T) {
	c := testCollection(2)
	brushes, err := c.Brushes()
	require.NoError(t, err)

	c.Dispose()
	assert.True(t, c.Disposed())
	for _, b := range brushes {
		assert.Nil(t, b.img)
	}
}

func TestBrushCollection_AccessAfterDispose(t *testing.T) {
	c := testCollection(1)
	c.Dispose()

	_, err := c.At(0)
	assert.ErrorIs(t, err, ErrDisposed)

	_, err = c.Image(0)
	assert.ErrorIs(t, err, ErrDisposed)

	_, err = c.Brushes()
	assert.ErrorIs(t, err, ErrDisposed)

	// Len stays usable for bookkeeping
	assert.Equal(t, 1, c.Len())
}

func TestBrushCollection_DoubleDisposeIsNoOp(t *testing.T) {
	c := testCollection(2)
	c.Dispose()
	assert.NotPanics(t, func() { c.Dispose() })
	assert.True(t, c.Disposed())
}
