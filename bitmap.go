package abr

import (
	"encoding/binary"
	"image"
)

// materializeBitmap converts a flattened grayscale alpha sample buffer
// into a premultiplied-alpha bitmap: every pixel is black with alpha
// taken from the sample. depth must be 8 or 16. For 16-bit data the
// sample is rescaled with the exact integer formula (sample*10)/1285,
// matching Photoshop's effective 16-bit brush maximum of ~32895 rather
// than a naive /257 rescale.
//
// The destination row stride comes from the image and may exceed
// width*4; the source is assumed packed at width samples per row.
func materializeBitmap(width, height, depth int, samples []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bytesPerSample := depth / 8
	srcStride := width * bytesPerSample

	for y := 0; y < height; y++ {
		src := samples[y*srcStride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			var alpha byte
			if depth == 8 {
				alpha = src[x]
			} else {
				sample := binary.BigEndian.Uint16(src[x*2:])
				alpha = byte(uint32(sample) * 10 / 1285)
			}
			// RGB stay 0: premultiplied black ink
			dst[x*4+3] = alpha
		}
	}

	return img
}
