package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"minbar/internal/logger"
	"minbar/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedUploads maps sniffed content types to the stored extension.
var allowedUploads = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

var uploadName = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|webp|gif|pdf)$`)

// MediaService stores uploads as <uuid><ext> in a flat directory.
type MediaService struct {
	dir      string
	maxBytes int64
}

func NewMediaService(dir string, maxMB int64) (*MediaService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &MediaService{dir: dir, maxBytes: maxMB << 20}, nil
}

func (s *MediaService) MaxBytes() int64 { return s.maxBytes }

// Save sniffs r, rejects types outside allowedUploads and writes the file
// under a fresh name.
func (s *MediaService) Save(ctx context.Context, r io.Reader) (*models.Upload, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrUnsupportedFile
	}
	ctype := http.DetectContentType(head)
	ext, ok := allowedUploads[ctype]
	if !ok {
		logger.WithCtx(ctx).Warn("Rejected upload (service)", zap.String("content_type", ctype))
		return nil, ErrUnsupportedFile
	}

	name := uuid.New().String() + ext
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(br, s.maxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if n > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("Upload stored (service)", zap.String("name", name), zap.Int64("size", n))
	return s.describe(info, ctype), nil
}

func (s *MediaService) describe(info fs.FileInfo, ctype string) *models.Upload {
	return &models.Upload{
		Name:        info.Name(),
		URL:         "/uploads/" + info.Name(),
		Size:        info.Size(),
		ContentType: ctype,
		UploadedAt:  info.ModTime().UTC(),
	}
}

// List returns stored uploads, newest first.
func (s *MediaService) List(ctx context.Context) ([]*models.Upload, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := []*models.Upload{}
	for _, e := range entries {
		if e.IsDir() || !uploadName.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, s.describe(info, contentTypeFor(e.Name())))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

// Path resolves a public upload name. Anything that is not a name produced
// by Save is ErrNotFound.
func (s *MediaService) Path(name string) (string, error) {
	if !uploadName.MatchString(name) {
		return "", ErrNotFound
	}
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", ErrNotFound
	}
	return p, nil
}

func (s *MediaService) Delete(ctx context.Context, name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Upload deleted (service)", zap.String("name", name))
	return nil
}

func contentTypeFor(name string) string {
	ext := filepath.Ext(name)
	for ct, e := range allowedUploads {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
