package services

import (
	"context"
	"testing"
	"time"

	"minbar/internal/models"
	"minbar/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookRepo struct{ mock.Mock }

func (m *mockBookRepo) Create(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookRepo) Update(ctx context.Context, b *models.Book, now time.Time) error {
	return m.Called(ctx, b, now).Error(0)
}
func (m *mockBookRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockBookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Book)
	return b, args.Error(1)
}
func (m *mockBookRepo) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Book, error) {
	args := m.Called(ctx, slug, onlyPublished)
	b, _ := args.Get(0).(*models.Book)
	return b, args.Error(1)
}
func (m *mockBookRepo) List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Book, int, error) {
	args := m.Called(ctx, f, limit, offset)
	l, _ := args.Get(0).([]*models.Book)
	return l, args.Int(1), args.Error(2)
}
func (m *mockBookRepo) Search(ctx context.Context, q string, limit int) ([]*models.Book, error) {
	args := m.Called(ctx, q, limit)
	l, _ := args.Get(0).([]*models.Book)
	return l, args.Error(1)
}

type mockVideoRepo struct{ mock.Mock }

func (m *mockVideoRepo) Create(ctx context.Context, v *models.Video) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVideoRepo) Update(ctx context.Context, v *models.Video, now time.Time) error {
	return m.Called(ctx, v, now).Error(0)
}
func (m *mockVideoRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockVideoRepo) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Video)
	return v, args.Error(1)
}
func (m *mockVideoRepo) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Video, error) {
	args := m.Called(ctx, slug, onlyPublished)
	v, _ := args.Get(0).(*models.Video)
	return v, args.Error(1)
}
func (m *mockVideoRepo) List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Video, int, error) {
	args := m.Called(ctx, f, limit, offset)
	l, _ := args.Get(0).([]*models.Video)
	return l, args.Int(1), args.Error(2)
}
func (m *mockVideoRepo) Search(ctx context.Context, q string, limit int) ([]*models.Video, error) {
	args := m.Called(ctx, q, limit)
	l, _ := args.Get(0).([]*models.Video)
	return l, args.Error(1)
}

func TestCatalogService_CreateBookSanitizes(t *testing.T) {
	books := &mockBookRepo{}
	books.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Slug == "riyad-as-salihin" &&
			b.Description == "<p>Hadith collection</p>" &&
			assert.ObjectsAreEqual([]int64{2, 5}, b.TagIDs)
	})).Return(nil)

	s := NewCatalogService(books, &mockVideoRepo{})
	_, err := s.CreateBook(context.Background(), &models.BookRequest{
		TitleEn:     "Riyad as-Salihin",
		Description: `<p>Hadith collection</p><script>alert(1)</script>`,
		TagIDs:      []int64{2, 5, 2},
	})
	require.NoError(t, err)
	books.AssertExpectations(t)
}

func TestCatalogService_BadReference(t *testing.T) {
	books := &mockBookRepo{}
	books.On("Create", mock.Anything, mock.Anything).Return(repository.ErrBadReference)

	s := NewCatalogService(books, &mockVideoRepo{})
	_, err := s.CreateBook(context.Background(), &models.BookRequest{TitleEn: "X", AuthorID: ptr(int64(404))})
	assert.ErrorIs(t, err, ErrBadReference)
}

func TestCatalogService_ListBooksPaginates(t *testing.T) {
	books := &mockBookRepo{}
	f := models.CatalogFilter{OnlyPublished: true, CategoryID: 4}
	books.On("List", mock.Anything, f, 10, 20).Return([]*models.Book{{ID: 1}}, 21, nil)

	s := NewCatalogService(books, &mockVideoRepo{})
	page, err := s.ListBooks(context.Background(), f, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 3, page.Page)
	books.AssertExpectations(t)
}

func TestCatalogService_PublishedVideoNotFound(t *testing.T) {
	videos := &mockVideoRepo{}
	videos.On("GetBySlug", mock.Anything, "draft", true).Return(nil, repository.ErrNotFound)

	s := NewCatalogService(&mockBookRepo{}, videos)
	_, err := s.PublishedVideo(context.Background(), "draft")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_SearchEscapesWildcards(t *testing.T) {
	books := &mockBookRepo{}
	videos := &mockVideoRepo{}
	books.On("Search", mock.Anything, `100\%`, maxSearchResults).Return([]*models.Book{}, nil)
	videos.On("Search", mock.Anything, `100\%`, maxSearchResults).Return([]*models.Video{}, nil)

	s := NewCatalogService(books, videos)
	res, err := s.Search(context.Background(), " 100% ", 500)
	require.NoError(t, err)
	assert.NotNil(t, res.Books)
	books.AssertExpectations(t)
	videos.AssertExpectations(t)

	empty, err := s.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Books)
}

func ptr[T any](v T) *T { return &v }
