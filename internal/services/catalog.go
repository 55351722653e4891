package services

import (
	"context"
	"strings"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"
	"minbar/internal/repository"
	"minbar/internal/validation"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type BookRepo interface {
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book, now time.Time) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Book, error)
	List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Book, int, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Book, error)
}

type VideoRepo interface {
	Create(ctx context.Context, v *models.Video) error
	Update(ctx context.Context, v *models.Video, now time.Time) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Video, error)
	List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Video, int, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Video, error)
}

const maxSearchResults = 50

// CatalogService handles books, videos and search over both.
type CatalogService struct {
	books  BookRepo
	videos VideoRepo
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewCatalogService(books BookRepo, videos VideoRepo) *CatalogService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("dir").Globally()
	return &CatalogService{books: books, videos: videos, policy: p, now: time.Now}
}

func (s *CatalogService) sanitize(ctx context.Context, raw string) string {
	clean := s.policy.Sanitize(raw)
	if len(clean) != len(raw) {
		logger.WithCtx(ctx).Debug("Description sanitized", zap.Int("raw_len", len(raw)), zap.Int("clean_len", len(clean)))
	}
	return strings.TrimSpace(clean)
}

// ----- Books -----

func (s *CatalogService) buildBook(ctx context.Context, in *models.BookRequest) (*models.Book, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	sl, err := makeSlug(in.Slug, in.TitleEn, in.TitleAr)
	if err != nil {
		return nil, err
	}
	return &models.Book{
		Slug:          sl,
		TitleAr:       strings.TrimSpace(in.TitleAr),
		TitleEn:       strings.TrimSpace(in.TitleEn),
		Description:   s.sanitize(ctx, in.Description),
		AuthorID:      in.AuthorID,
		CategoryID:    in.CategoryID,
		PlaceID:       in.PlaceID,
		CoverPath:     strings.TrimSpace(in.CoverPath),
		FilePath:      strings.TrimSpace(in.FilePath),
		PublishedYear: in.PublishedYear,
		IsPublished:   in.IsPublished,
		TagIDs:        dedupeIDs(in.TagIDs),
	}, nil
}

func (s *CatalogService) CreateBook(ctx context.Context, in *models.BookRequest) (*models.Book, error) {
	b, err := s.buildBook(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, mapRepoErr(err)
	}
	logger.WithCtx(ctx).Info("Book created (service)", zap.Int64("id", b.ID), zap.String("slug", b.Slug))
	return b, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int64, in *models.BookRequest) (*models.Book, error) {
	b, err := s.buildBook(ctx, in)
	if err != nil {
		return nil, err
	}
	b.ID = id
	if err := s.books.Update(ctx, b, s.now()); err != nil {
		return nil, mapRepoErr(err)
	}
	return s.GetBook(ctx, id)
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	return mapRepoErr(s.books.Delete(ctx, id))
}

func (s *CatalogService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	return b, mapRepoErr(err)
}

// PublishedBook returns a published book by slug.
func (s *CatalogService) PublishedBook(ctx context.Context, slug string) (*models.Book, error) {
	b, err := s.books.GetBySlug(ctx, slug, true)
	return b, mapRepoErr(err)
}

func (s *CatalogService) ListBooks(ctx context.Context, f models.CatalogFilter, page, pageSize int) (*models.Page[*models.Book], error) {
	page, pageSize = NormalizePage(page, pageSize)
	items, total, err := s.books.List(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Book]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// ----- Videos -----

func (s *CatalogService) buildVideo(ctx context.Context, in *models.VideoRequest) (*models.Video, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	sl, err := makeSlug(in.Slug, in.TitleEn, in.TitleAr)
	if err != nil {
		return nil, err
	}
	return &models.Video{
		Slug:            sl,
		TitleAr:         strings.TrimSpace(in.TitleAr),
		TitleEn:         strings.TrimSpace(in.TitleEn),
		Description:     s.sanitize(ctx, in.Description),
		URL:             strings.TrimSpace(in.URL),
		AuthorID:        in.AuthorID,
		CategoryID:      in.CategoryID,
		PlaceID:         in.PlaceID,
		DurationSeconds: in.DurationSeconds,
		RecordedAt:      in.RecordedAt,
		IsPublished:     in.IsPublished,
		TagIDs:          dedupeIDs(in.TagIDs),
	}, nil
}

func (s *CatalogService) CreateVideo(ctx context.Context, in *models.VideoRequest) (*models.Video, error) {
	v, err := s.buildVideo(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, mapRepoErr(err)
	}
	logger.WithCtx(ctx).Info("Video created (service)", zap.Int64("id", v.ID), zap.String("slug", v.Slug))
	return v, nil
}

func (s *CatalogService) UpdateVideo(ctx context.Context, id int64, in *models.VideoRequest) (*models.Video, error) {
	v, err := s.buildVideo(ctx, in)
	if err != nil {
		return nil, err
	}
	v.ID = id
	if err := s.videos.Update(ctx, v, s.now()); err != nil {
		return nil, mapRepoErr(err)
	}
	return s.GetVideo(ctx, id)
}

func (s *CatalogService) DeleteVideo(ctx context.Context, id int64) error {
	return mapRepoErr(s.videos.Delete(ctx, id))
}

func (s *CatalogService) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	v, err := s.videos.GetByID(ctx, id)
	return v, mapRepoErr(err)
}

func (s *CatalogService) PublishedVideo(ctx context.Context, slug string) (*models.Video, error) {
	v, err := s.videos.GetBySlug(ctx, slug, true)
	return v, mapRepoErr(err)
}

func (s *CatalogService) ListVideos(ctx context.Context, f models.CatalogFilter, page, pageSize int) (*models.Page[*models.Video], error) {
	page, pageSize = NormalizePage(page, pageSize)
	items, total, err := s.videos.List(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Video]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Search looks through published books and videos. An empty query matches
// nothing.
func (s *CatalogService) Search(ctx context.Context, q string, limit int) (*models.SearchResult, error) {
	q = strings.TrimSpace(q)
	res := &models.SearchResult{Books: []*models.Book{}, Videos: []*models.Video{}}
	if q == "" {
		return res, nil
	}
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	q = repository.EscapeLike(q)

	books, err := s.books.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	res.Books, res.Videos = books, videos
	return res, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
