package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"medicart-be/internal/logger"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var ErrEmptyFile = errors.New("uploaded file is empty")

// File is one uploaded part after it has been read into memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Stager copies multipart parts through a scratch directory before they are
// stored. Scratch files never outlive the call that created them.
type Stager struct {
	dir string
}

func NewStager(dir string) (*Stager, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Stager{dir: dir}, nil
}

func (s *Stager) Dir() string {
	return s.dir
}

// StageAll reads every header in order. On the first failure nothing is
// returned and all scratch files are already gone.
func (s *Stager) StageAll(ctx context.Context, headers []*multipart.FileHeader) ([]File, error) {
	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := s.Stage(ctx, fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (s *Stager) Stage(ctx context.Context, fh *multipart.FileHeader) (File, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "upload"),
		zap.String("filename", fh.Filename),
	)

	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.dir, "upload-*")
	if err != nil {
		log.Error("failed to create scratch file", zap.Error(err))
		return File{}, err
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove scratch file", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return File{}, fmt.Errorf("stage upload %q: %w", fh.Filename, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return File{}, err
	}

	data, err := io.ReadAll(tmp)
	if err != nil {
		return File{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	if len(data) == 0 {
		return File{}, fmt.Errorf("%w: %s", ErrEmptyFile, fh.Filename)
	}

	return File{
		Filename:    fh.Filename,
		ContentType: contentType(fh, data),
		Data:        data,
	}, nil
}

// contentType prefers the part header and falls back to sniffing.
func contentType(fh *multipart.FileHeader, data []byte) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mimetype.Detect(data).String()
}
