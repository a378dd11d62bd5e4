package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type part struct {
	name        string
	contentType string
	data        []byte
}

func buildHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+p.name+`"`)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["images"]
}

func TestStager_StageAll(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStager(dir)
	require.NoError(t, err)

	headers := buildHeaders(t,
		part{name: "a.jpg", contentType: "image/jpeg", data: []byte("jpeg-bytes")},
		part{name: "b.png", data: pngHeader},
	)

	files, err := s.StageAll(context.Background(), headers)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "a.jpg", files[0].Filename)
	assert.Equal(t, "image/jpeg", files[0].ContentType)
	assert.Equal(t, []byte("jpeg-bytes"), files[0].Data)

	assert.Equal(t, "image/png", files[1].ContentType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files must be removed")
}

func TestStager_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStager(dir)
	require.NoError(t, err)

	headers := buildHeaders(t,
		part{name: "ok.jpg", contentType: "image/jpeg", data: []byte("x")},
		part{name: "empty.jpg", contentType: "image/jpeg"},
	)

	_, err = s.StageAll(context.Background(), headers)
	assert.ErrorIs(t, err, ErrEmptyFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewStager_CreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/uploads"

	s, err := NewStager(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
