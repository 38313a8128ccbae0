package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// minimal valid PNG header, enough for content sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestSaveAcceptsPNG(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/files")

	desc, err := store.Save("client-1", "logo.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.Equal(t, "logo.png", desc.Filename)
	require.Equal(t, "image/png", desc.MimeType)
	require.Equal(t, int64(len(pngBytes)), desc.Size)
	require.True(t, strings.HasPrefix(desc.URL, "/files/client-1/"))
	require.True(t, strings.HasSuffix(desc.URL, ".png"))
}

func TestSaveRejectsUnknownType(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/files")

	_, err := store.Save("client-1", "notes.txt", strings.NewReader("just some text"))
	require.ErrorIs(t, err, ErrBadFileType)
}

func TestSaveRejectsOversized(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/files")

	big := append(append([]byte{}, pngBytes...), make([]byte, MaxFileSize)...)
	_, err := store.Save("client-1", "huge.png", bytes.NewReader(big))
	require.ErrorIs(t, err, ErrTooLarge)
}
