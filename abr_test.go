package abr

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UnsupportedVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, int16(99))
	binary.Write(buf, binary.BigEndian, int16(0))

	a, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	err = a.Parse()
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "99")

	// no partial collection on structural failure
	assert.Nil(t, a.Brushes())
	assert.False(t, a.Parsed())
}

func TestParse_EmptyStream(t *testing.T) {
	a, err := NewReader(bytes.NewReader(nil))
	require.NoError(t, err)

	err = a.Parse()
	var te *TruncatedDataError
	require.ErrorAs(t, err, &te)
}

func TestParse_Idempotent(t *testing.T) {
	payload := writeLegacySampledPayload(2, "Once", 0, 2, 1, 0, []byte{1, 2})
	data := writeLegacyFile(2, [2]interface{}{brushTypeSampled, payload})

	a, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, a.Parse())
	require.NoError(t, a.Parse())

	assert.True(t, a.Parsed())
	assert.Equal(t, int16(2), a.Version())
	assert.Equal(t, 1, a.Brushes().Len())
}

func TestOpen_FileLifecycle(t *testing.T) {
	payload := writeLegacySampledPayload(2, "Disk", 0, 2, 1, 0, []byte{3, 4})
	data := writeLegacyFile(2, [2]interface{}{brushTypeSampled, payload})

	path := filepath.Join(t.TempDir(), "test.abr")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var count int
	err := Open(path, func(a *ABR) error {
		count = a.Brushes().Len()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpen_MissingFile(t *testing.T) {
	err := Open(filepath.Join(t.TempDir(), "nope.abr"), func(a *ABR) error {
		t.Fatal("callback should not run")
		return nil
	})
	assert.Error(t, err)
}

func TestDecode_CallerOwnsCollection(t *testing.T) {
	payload := writeLegacySampledPayload(2, "Owned", 0, 2, 1, 0, []byte{7, 8})
	data := writeLegacyFile(2, [2]interface{}{brushTypeSampled, payload})

	collection, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, collection.Len())

	collection.Dispose()
	_, err = collection.At(0)
	assert.ErrorIs(t, err, ErrDisposed)
}
