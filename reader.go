package abr

import (
	"encoding/binary"
	"io"
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// File wraps a seekable byte source with convenience methods for reading
// big-endian binary data. All multi-byte reads are big-endian; ABR files
// use network byte order throughout.
type File struct {
	reader io.ReadSeeker
	length int64
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// newFile wraps a seekable reader, measuring its total length and leaving
// the position at the start of the stream.
func newFile(r io.ReadSeeker) (*File, error) {
	length, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &File{reader: r, length: length}, nil
}

// Read reads exactly len(p) bytes. A short read is reported as a
// *TruncatedDataError.
func (f *File) Read(p []byte) (int, error) {
	pos, _ := f.Position()
	n, err := io.ReadFull(f.reader, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, &TruncatedDataError{Offset: pos, Want: len(p)}
	}
	return n, err
}

// readAtMost reads up to len(p) bytes, accepting a short read at end of
// stream. Used only by the legacy uncompressed raster path, which
// tolerates files that end early.
func (f *File) readAtMost(p []byte) (int, error) {
	n, err := io.ReadFull(f.reader, p)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

// Position returns the current absolute byte offset.
func (f *File) Position() (int64, error) {
	return f.reader.Seek(0, io.SeekCurrent)
}

// SetPosition seeks to an absolute byte offset. Seeking forward past
// unparsed data is the primary mechanism for skipping sections whose size
// is known from a preceding length field.
func (f *File) SetPosition(offset int64) error {
	_, err := f.reader.Seek(offset, io.SeekStart)
	return err
}

// Length returns the total stream size in bytes.
func (f *File) Length() int64 {
	return f.length
}

// Skip advances the position by n bytes.
func (f *File) Skip(n int64) error {
	_, err := f.reader.Seek(n, io.SeekCurrent)
	return err
}

// ReadByte reads a single byte.
func (f *File) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBytes reads exactly n bytes.
func (f *File) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := f.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads a string of the specified byte length.
func (f *File) ReadString(length int) (string, error) {
	buf, err := f.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadUint16 reads a 16-bit unsigned integer (big endian).
func (f *File) ReadUint16() (uint16, error) {
	buf := make([]byte, 2)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadInt16 reads a 16-bit signed integer (big endian).
func (f *File) ReadInt16() (int16, error) {
	v, err := f.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a 32-bit unsigned integer (big endian).
func (f *File) ReadUint32() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadInt32 reads a 32-bit signed integer (big endian).
func (f *File) ReadInt32() (int32, error) {
	v, err := f.ReadUint32()
	return int32(v), err
}

// ReadFloat64 reads a 64-bit IEEE 754 float (big endian).
func (f *File) ReadFloat64() (float64, error) {
	buf := make([]byte, 8)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

// ReadPascalString reads a 1-byte length prefix followed by that many raw
// bytes. ABR Pascal strings are plain ASCII.
func (f *File) ReadPascalString() (string, error) {
	length, err := f.ReadByte()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	return f.ReadString(int(length))
}

// ReadUnicodeString reads a 4-byte big-endian character count followed by
// that many UTF-16BE code units. Trailing NUL terminators, which Photoshop
// writes on brush names, are stripped.
func (f *File) ReadUnicodeString() (string, error) {
	count, err := f.ReadUint32()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	data, err := f.ReadBytes(int(count) * 2)
	if err != nil {
		return "", err
	}
	decoded, err := utf16be.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(decoded), "\x00"), nil
}
