package abr

import "fmt"

// sampledBrushInfo is the metadata extracted from the descriptor section
// for one brush preset: the display name, the tag correlating it to a raw
// raster entry in the sample section, and the nominal pixel diameter used
// to pick the stored (largest) variant.
type sampledBrushInfo struct {
	name     string
	tag      string
	diameter int
}

// Descriptor class IDs the decoder cares about; everything else is parsed
// generically and discarded.
const (
	classBrushPreset  = "brushPreset"
	classSampledBrush = "sampledBrush"
)

// descriptorParser is a recursive-descent parser over Photoshop's generic
// typed key-value format. The format has no skip-by-type shortcut: even
// unwanted values must be parsed in full to keep the stream position
// correct, so every type in the grammar has a parse arm and an unknown
// type tag is a hard error.
type descriptorParser struct {
	file    *File
	brushes []sampledBrushInfo
	current *sampledBrushInfo // preset being assembled, nil outside brushPreset
}

// parseDescriptorSection parses the payload of a desc section. The cursor
// must be positioned immediately after the section's 8BIM chunk header.
// The payload is a 4-byte section size, 22 reserved bytes, then exactly
// one top-level key and typed value.
func parseDescriptorSection(f *File) ([]sampledBrushInfo, error) {
	p := &descriptorParser{file: f}

	if _, err := f.ReadUint32(); err != nil {
		return nil, fmt.Errorf("failed to read descriptor section size: %w", err)
	}
	if err := f.Skip(22); err != nil {
		return nil, err
	}

	if _, err := p.readKey(); err != nil {
		return nil, fmt.Errorf("failed to read top-level key: %w", err)
	}
	if err := p.parseTypedValue(); err != nil {
		return nil, err
	}

	return p.brushes, nil
}

// readKey reads a 4-byte length-prefixed ASCII token. A length of zero
// means exactly four raw bytes follow.
func (p *descriptorParser) readKey() (string, error) {
	length, err := p.file.ReadUint32()
	if err != nil {
		return "", err
	}
	if length == 0 {
		length = 4
	}
	return p.file.ReadString(int(length))
}

// parseTypedValue reads a 4-byte type tag and parses the value it selects.
func (p *descriptorParser) parseTypedValue() error {
	tag, err := p.file.ReadString(4)
	if err != nil {
		return err
	}
	return p.parseValue(tag)
}

// parseValue parses one value of the given type. Values are consumed for
// stream-position correctness; only the brushPreset/sampledBrush fields
// are retained.
func (p *descriptorParser) parseValue(tag string) error {
	switch tag {
	case "VlLs":
		return p.parseList()
	case "Objc", "GlbO":
		return p.parseDescriptor()
	case "TEXT":
		_, err := p.file.ReadUnicodeString()
		return err
	case "UntF":
		_, _, err := p.parseUnitFloat()
		return err
	case "bool":
		_, err := p.file.ReadByte()
		return err
	case "long":
		_, err := p.file.ReadInt32()
		return err
	case "doub":
		_, err := p.file.ReadFloat64()
		return err
	case "enum":
		if _, err := p.readKey(); err != nil {
			return err
		}
		_, err := p.readKey()
		return err
	default:
		return formatErrorf("unknown descriptor type %q", tag)
	}
}

// parseList parses a count-prefixed list of typed items.
func (p *descriptorParser) parseList() error {
	count, err := p.file.ReadUint32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := p.parseTypedValue(); err != nil {
			return fmt.Errorf("failed to parse list item %d: %w", i, err)
		}
	}
	return nil
}

// parseUnitFloat parses a unit-float: a 4-byte unit-type tag followed by
// an 8-byte double.
func (p *descriptorParser) parseUnitFloat() (string, float64, error) {
	unit, err := p.file.ReadString(4)
	if err != nil {
		return "", 0, err
	}
	value, err := p.file.ReadFloat64()
	if err != nil {
		return "", 0, err
	}
	return unit, value, nil
}

// parseDescriptor parses a descriptor object: a name string, a class ID
// and a count of key+value pairs. brushPreset and sampledBrush classes
// get field-level handling; all other classes are walked generically.
func (p *descriptorParser) parseDescriptor() error {
	if _, err := p.file.ReadUnicodeString(); err != nil {
		return fmt.Errorf("failed to read descriptor name: %w", err)
	}
	classID, err := p.readKey()
	if err != nil {
		return fmt.Errorf("failed to read descriptor class: %w", err)
	}
	count, err := p.file.ReadUint32()
	if err != nil {
		return err
	}

	switch classID {
	case classBrushPreset:
		return p.parseBrushPreset(count)
	case classSampledBrush:
		return p.parseSampledBrush(count)
	default:
		for i := uint32(0); i < count; i++ {
			if _, err := p.readKey(); err != nil {
				return err
			}
			if err := p.parseTypedValue(); err != nil {
				return err
			}
		}
		return nil
	}
}

// parseBrushPreset walks a brushPreset descriptor, retaining the display
// name (key "Nm  ") and descending into the sampled brush descriptor
// (key "Brsh"). A preset without a correlation tag is dropped.
func (p *descriptorParser) parseBrushPreset(count uint32) error {
	info := sampledBrushInfo{}
	prev := p.current
	p.current = &info

	for i := uint32(0); i < count; i++ {
		key, err := p.readKey()
		if err != nil {
			return err
		}
		tag, err := p.file.ReadString(4)
		if err != nil {
			return err
		}

		if key == "Nm  " && tag == "TEXT" {
			name, err := p.file.ReadUnicodeString()
			if err != nil {
				return err
			}
			info.name = name
			continue
		}

		if err := p.parseValue(tag); err != nil {
			return err
		}
	}

	p.current = prev
	if info.tag != "" {
		p.brushes = append(p.brushes, info)
	}
	return nil
}

// parseSampledBrush walks a sampledBrush descriptor, retaining the
// diameter (key "Dmtr", accepted only with pixel units) and the sample
// correlation tag (key "sampledData").
func (p *descriptorParser) parseSampledBrush(count uint32) error {
	for i := uint32(0); i < count; i++ {
		key, err := p.readKey()
		if err != nil {
			return err
		}
		tag, err := p.file.ReadString(4)
		if err != nil {
			return err
		}

		switch {
		case key == "Dmtr" && tag == "UntF":
			unit, value, err := p.parseUnitFloat()
			if err != nil {
				return err
			}
			if unit == "#Pxl" && p.current != nil {
				p.current.diameter = int(value)
			}
		case key == "sampledData" && tag == "TEXT":
			data, err := p.file.ReadUnicodeString()
			if err != nil {
				return err
			}
			if p.current != nil {
				p.current.tag = data
			}
		default:
			if err := p.parseValue(tag); err != nil {
				return err
			}
		}
	}
	return nil
}
