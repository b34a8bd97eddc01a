package abr

import (
	"fmt"
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// chunkSignature opens every outer section of a v6+ file.
const chunkSignature = "8BIM"

// sectionOffsets records where the sample and descriptor payloads start,
// immediately after each chunk's size field. -1 means the section was not
// found. If a section ID repeats, the last occurrence wins.
type sectionOffsets struct {
	samp int64
	desc int64
}

// scanSections walks the 8BIM chunk sequence, recording the payload
// offsets of the samp and desc sections and skipping everything else.
// The scan stops at the first non-matching signature or end of stream.
func scanSections(f *File) (sectionOffsets, error) {
	offsets := sectionOffsets{samp: -1, desc: -1}

	for {
		pos, err := f.Position()
		if err != nil {
			return offsets, err
		}
		if pos+12 > f.Length() {
			break
		}

		sig, err := f.ReadString(4)
		if err != nil {
			return offsets, err
		}
		if sig != chunkSignature {
			break
		}

		id, err := f.ReadString(4)
		if err != nil {
			return offsets, err
		}
		size, err := f.ReadUint32()
		if err != nil {
			return offsets, err
		}

		payload, err := f.Position()
		if err != nil {
			return offsets, err
		}
		switch id {
		case "samp":
			offsets.samp = payload
		case "desc":
			offsets.desc = payload
		}

		if err := f.SetPosition(payload + int64(size)); err != nil {
			return offsets, err
		}
	}

	return offsets, nil
}

// decodeSampledBrushes decodes a version 6/7/10 file: the descriptor
// section supplies per-preset metadata, the sample section supplies the
// raster payloads, and the two are joined by the correlation tag.
func decodeSampledBrushes(f *File, brushes *BrushCollection) error {
	minor, err := f.ReadInt16()
	if err != nil {
		return fmt.Errorf("failed to read minor version: %w", err)
	}

	// legacy per-brush header fields preceding the bounds rectangle
	var headerSkip int64
	switch minor {
	case 1:
		headerSkip = 10
	case 2:
		headerSkip = 264
	default:
		return formatErrorf("unsupported minor version %d", minor)
	}

	offsets, err := scanSections(f)
	if err != nil {
		return err
	}

	var metadata []sampledBrushInfo
	if offsets.desc >= 0 {
		if err := f.SetPosition(offsets.desc); err != nil {
			return err
		}
		metadata, err = parseDescriptorSection(f)
		if err != nil {
			return fmt.Errorf("failed to parse descriptor section: %w", err)
		}
	}

	if offsets.samp < 0 || len(metadata) == 0 {
		return nil
	}

	if err := f.SetPosition(offsets.samp); err != nil {
		return err
	}
	return decodeSampleSection(f, headerSkip, metadata, brushes)
}

// decodeSampleSection iterates the raster entries of the samp section.
// Each entry declares its own length, padded to 4-byte alignment, so the
// cursor is advanced to the precomputed entry end after every entry
// regardless of how much was consumed.
func decodeSampleSection(f *File, headerSkip int64, metadata []sampledBrushInfo, brushes *BrushCollection) error {
	sectionLength, err := f.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read sample section length: %w", err)
	}
	pos, err := f.Position()
	if err != nil {
		return err
	}
	sectionEnd := pos + int64(sectionLength)

	for {
		pos, err := f.Position()
		if err != nil {
			return err
		}
		if pos >= sectionEnd || pos+4 > f.Length() {
			break
		}

		entryLength, err := f.ReadUint32()
		if err != nil {
			return err
		}
		padded := (int64(entryLength) + 3) &^ 3
		if padded == 0 {
			break
		}

		entryPos, err := f.Position()
		if err != nil {
			return err
		}
		entryEnd := entryPos + padded

		if err := decodeSampleEntry(f, headerSkip, metadata, brushes); err != nil {
			return err
		}

		if err := f.SetPosition(entryEnd); err != nil {
			return err
		}
	}

	return nil
}

// decodeSampleEntry decodes one raster entry. The entry is dropped
// without error when its bounds are empty, its depth is not 8 or 16, its
// compression type is unknown, or no metadata matches its tag; the
// caller's seek to the entry end recovers the stream.
func decodeSampleEntry(f *File, headerSkip int64, metadata []sampledBrushInfo, brushes *BrushCollection) error {
	tag, err := f.ReadPascalString()
	if err != nil {
		return err
	}
	if err := f.Skip(headerSkip); err != nil {
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
		logger().Debug("skipping sample entry with empty bounds", "tag", tag)
		return nil
	}

	depth, err := f.ReadInt16()
	if err != nil {
		return err
	}
	if depth != 8 && depth != 16 {
		logger().Debug("skipping sample entry with unsupported depth", "tag", tag, "depth", depth)
		return nil
	}

	compression, err := f.ReadByte()
	if err != nil {
		return err
	}

	stored, variants := matchMetadata(metadata, tag)
	if stored == nil {
		logger().Debug("skipping sample entry without metadata", "tag", tag)
		return nil
	}

	bytesPerRow := width * int(depth) / 8
	samples := make([]byte, bytesPerRow*height)

	switch compression {
	case 0:
		if _, err := f.Read(samples); err != nil {
			return err
		}
	case 1:
		// 16-bit rows double the byte counts per row as well
		for r := 0; r < height; r++ {
			if _, err := f.ReadInt16(); err != nil {
				return err
			}
		}
		for r := 0; r < height; r++ {
			if err := decodeRLERow(f, samples, r*bytesPerRow, bytesPerRow); err != nil {
				return err
			}
		}
	default:
		logger().Debug("skipping sample entry with unknown compression", "tag", tag, "compression", compression)
		return nil
	}

	full := materializeBitmap(width, height, int(depth), samples)
	brushes.add(&Brush{name: stored.name, img: full})

	// smaller variants share the stored raster, scaled down by the
	// diameter ratio
	for _, v := range variants {
		ratio := float64(v.diameter) / float64(stored.diameter)
		brushes.add(&Brush{name: v.name, img: downscale(full, ratio)})
	}

	return nil
}

// matchMetadata finds the metadata entry with the given tag and the
// largest diameter (the stored brush), plus every smaller-diameter entry
// sharing the tag, ordered by descending diameter. The strictly-greater
// comparison makes the first entry at the maximum diameter win ties.
func matchMetadata(metadata []sampledBrushInfo, tag string) (*sampledBrushInfo, []sampledBrushInfo) {
	var stored *sampledBrushInfo
	for i := range metadata {
		if metadata[i].tag != tag {
			continue
		}
		if stored == nil || metadata[i].diameter > stored.diameter {
			stored = &metadata[i]
		}
	}
	if stored == nil {
		return nil, nil
	}

	var variants []sampledBrushInfo
	for i := range metadata {
		if metadata[i].tag == tag && metadata[i].diameter < stored.diameter {
			variants = append(variants, metadata[i])
		}
	}
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].diameter > variants[j].diameter
	})
	return stored, variants
}

// downscale resamples src by the given ratio using Catmull-Rom bicubic
// interpolation.
func downscale(src *image.RGBA, ratio float64) *image.RGBA {
	width := int(math.Round(float64(src.Rect.Dx()) * ratio))
	height := int(math.Round(float64(src.Rect.Dy()) * ratio))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
