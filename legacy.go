package abr

import "fmt"

// Legacy (version 1/2) brush record types.
const (
	brushTypeComputed = 1
	brushTypeSampled  = 2
)

// Legacy raster data is stored in chunks of at most this many rows, each
// chunk carrying its own compression flag.
const maxRowsPerChunk = 16384

// decodeLegacyBrushes walks the flat version 1/2 brush list. Computed
// (parametric) brushes are skipped; sampled brushes are decoded into the
// collection. Each record declares its own byte size, so any brush the
// decoder cannot handle is jumped over exactly and decoding continues
// with the next record.
func decodeLegacyBrushes(f *File, version int16, brushes *BrushCollection) error {
	count, err := f.ReadInt16()
	if err != nil {
		return fmt.Errorf("failed to read brush count: %w", err)
	}

	for i := int16(0); i < count; i++ {
		brushType, err := f.ReadInt16()
		if err != nil {
			return fmt.Errorf("failed to read brush type: %w", err)
		}
		size, err := f.ReadInt32()
		if err != nil {
			return fmt.Errorf("failed to read brush size: %w", err)
		}

		pos, err := f.Position()
		if err != nil {
			return err
		}
		end := pos + int64(size)

		if brushType == brushTypeSampled {
			if err := decodeLegacySampled(f, version, end, brushes); err != nil {
				return fmt.Errorf("failed to decode brush %d: %w", i, err)
			}
		} else {
			// computed brushes carry no raster data
			logger().Debug("skipping brush", "index", i, "type", brushType)
		}

		if err := f.SetPosition(end); err != nil {
			return err
		}
	}

	return nil
}

// decodeLegacySampled decodes one sampled brush record. Invalid
// dimensions, unsupported bit depth and unknown compression types drop
// the brush without error; the caller's end-offset seek recovers the
// stream position.
func decodeLegacySampled(f *File, version int16, end int64, brushes *BrushCollection) error {
	spacing, err := f.ReadInt16()
	if err != nil {
		return err
	}

	// version 1 brushes are unnamed
	name := ""
	if version == 2 {
		name, err = f.ReadUnicodeString()
		if err != nil {
			return err
		}
	}

	if _, err := f.ReadByte(); err != nil { // anti-alias flag
		return err
	}

	// legacy 16-bit bounds, superseded by the 32-bit rectangle
	if err := f.Skip(8); err != nil {
		return err
	}

	top, err := f.ReadInt32()
	if err != nil {
		return err
	}
	left, err := f.ReadInt32()
	if err != nil {
		return err
	}
	bottom, err := f.ReadInt32()
	if err != nil {
		return err
	}
	right, err := f.ReadInt32()
	if err != nil {
		return err
	}

	width := int(right - left)
	height := int(bottom - top)
	if width <= 0 || height <= 0 {
		logger().Debug("skipping brush with empty bounds", "width", width, "height", height)
		return nil
	}

	depth, err := f.ReadInt16()
	if err != nil {
		return err
	}
	if depth != 8 {
		logger().Debug("skipping brush with unsupported depth", "depth", depth)
		return nil
	}

	samples := make([]byte, width*height)
	row := 0
	for row < height {
		chunkRows := height - row
		if chunkRows > maxRowsPerChunk {
			chunkRows = maxRowsPerChunk
		}

		// nominally an int16 field, but written as one byte in practice
		compression, err := f.ReadByte()
		if err != nil {
			return err
		}

		switch compression {
		case 0:
			// uncompressed rows; tolerate a stream that ends early
			n, err := f.readAtMost(samples[row*width : (row+chunkRows)*width])
			if err != nil {
				return err
			}
			if n < chunkRows*width {
				row = height
				continue
			}
		case 1:
			// per-row byte counts precede the PackBits data; output
			// length is derived from the bounds, so the counts are
			// consumed but not otherwise used
			for r := 0; r < chunkRows; r++ {
				if _, err := f.ReadInt16(); err != nil {
					return err
				}
			}
			for r := 0; r < chunkRows; r++ {
				if err := decodeRLERow(f, samples, (row+r)*width, width); err != nil {
					return err
				}
			}
		default:
			logger().Debug("skipping brush with unknown compression", "compression", compression)
			return nil
		}

		row += chunkRows
	}

	brushes.add(&Brush{
		name:    name,
		spacing: int(spacing),
		img:     materializeBitmap(width, height, 8, samples),
	})
	return nil
}
