package abr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileFrom(t *testing.T, data []byte) *File {
	t.Helper()
	f, err := newFile(bytes.NewReader(data))
	require.NoError(t, err)
	return f
}

func TestFile_ReadPrimitives(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.WriteByte(0xAB)
	binary.Write(buf, binary.BigEndian, int16(-2))
	binary.Write(buf, binary.BigEndian, uint16(0xBEEF))
	binary.Write(buf, binary.BigEndian, int32(-100000))
	binary.Write(buf, binary.BigEndian, uint32(0xDEADBEEF))
	binary.Write(buf, binary.BigEndian, float64(2.5))

	f := fileFrom(t, buf.Bytes())

	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)

	i16, err := f.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	u16, err := f.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	i32, err := f.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-100000), i32)

	u32, err := f.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	d, err := f.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 2.5, d)
}

func TestFile_BigEndianByteOrder(t *testing.T) {
	f := fileFrom(t, []byte{0x01, 0x02})
	v, err := f.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), v)
}

func TestFile_PositionAndLength(t *testing.T) {
	f := fileFrom(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Equal(t, int64(8), f.Length())

	pos, err := f.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	_, err = f.ReadUint32()
	require.NoError(t, err)
	pos, err = f.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	// backtrack and re-read
	require.NoError(t, f.SetPosition(2))
	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(3), b)

	require.NoError(t, f.Skip(2))
	b, err = f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(6), b)
}

func TestFile_ReadPascalString(t *testing.T) {
	f := fileFrom(t, []byte{5, 'h', 'e', 'l', 'l', 'o', 0})
	s, err := f.ReadPascalString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = f.ReadPascalString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestFile_ReadUnicodeString(t *testing.T) {
	buf := new(bytes.Buffer)
	writeUnicodeString(buf, "Brush é")

	f := fileFrom(t, buf.Bytes())
	s, err := f.ReadUnicodeString()
	require.NoError(t, err)
	assert.Equal(t, "Brush é", s)
}

func TestFile_ReadUnicodeStringTrimsNUL(t *testing.T) {
	// Photoshop writes a trailing NUL on brush names
	buf := new(bytes.Buffer)
	writeUnicodeString(buf, "Chalk\x00")

	f := fileFrom(t, buf.Bytes())
	s, err := f.ReadUnicodeString()
	require.NoError(t, err)
	assert.Equal(t, "Chalk", s)
}

func TestFile_TruncatedRead(t *testing.T) {
	f := fileFrom(t, []byte{1, 2})

	_, err := f.ReadUint32()
	require.Error(t, err)

	var te *TruncatedDataError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 4, te.Want)
	assert.Equal(t, int64(0), te.Offset)
}

func TestFile_TruncatedUnicodeString(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint32(10))
	buf.WriteString("ab") // 2 of 20 declared bytes

	f := fileFrom(t, buf.Bytes())
	_, err := f.ReadUnicodeString()

	var te *TruncatedDataError
	require.ErrorAs(t, err, &te)
}

func TestFile_ReadAtMostToleratesShortRead(t *testing.T) {
	f := fileFrom(t, []byte{1, 2, 3})

	buf := make([]byte, 8)
	n, err := f.readAtMost(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, buf[:n])
}
