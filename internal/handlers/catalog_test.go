package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"minbar/internal/models"
	"minbar/internal/repository"
	"minbar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBooks struct{ mock.Mock }

func (m *mockBooks) Create(ctx context.Context, b *models.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBooks) Update(ctx context.Context, b *models.Book, now time.Time) error {
	return m.Called(ctx, b, now).Error(0)
}

func (m *mockBooks) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBooks) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Book)
	return b, args.Error(1)
}

func (m *mockBooks) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Book, error) {
	args := m.Called(ctx, slug, onlyPublished)
	b, _ := args.Get(0).(*models.Book)
	return b, args.Error(1)
}

func (m *mockBooks) List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Book, int, error) {
	args := m.Called(ctx, f, limit, offset)
	return args.Get(0).([]*models.Book), args.Int(1), args.Error(2)
}

func (m *mockBooks) Search(ctx context.Context, q string, limit int) ([]*models.Book, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]*models.Book), args.Error(1)
}

func newCatalogHandler(books *mockBooks) *CatalogHandler {
	return NewCatalogHandler(services.NewCatalogService(books, nil))
}

func TestListBooks_PublicFilters(t *testing.T) {
	books := &mockBooks{}
	want := models.CatalogFilter{AuthorID: 3, TagID: 5, OnlyPublished: true}
	books.On("List", mock.Anything, want, 12, 12).Return([]*models.Book{{ID: 1, Slug: "riyad"}}, 13, nil)

	rec := httptest.NewRecorder()
	newCatalogHandler(books).ListBooks(rec, httptest.NewRequest(http.MethodGet, "/api/books?author_id=3&tag_id=5&page=2&place_id=x", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.Page[*models.Book]
	require.NoError(t, json.Unmarshal(readEnvelope(t, rec).Data, &page))
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 12, page.PageSize)
	books.AssertExpectations(t)
}

func TestAdminListBooks_IncludesDrafts(t *testing.T) {
	books := &mockBooks{}
	books.On("List", mock.Anything, models.CatalogFilter{}, 100, 0).Return([]*models.Book{}, 0, nil)

	rec := httptest.NewRecorder()
	newCatalogHandler(books).AdminListBooks(rec, httptest.NewRequest(http.MethodGet, "/api/admin/books?page_size=500", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	books.AssertExpectations(t)
}

func TestGetBookBySlug_NotFound(t *testing.T) {
	books := &mockBooks{}
	books.On("GetBySlug", mock.Anything, "draft", true).Return(nil, repository.ErrNotFound)

	rec := httptest.NewRecorder()
	newCatalogHandler(books).GetBookBySlug(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slug": "draft"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBook(t *testing.T) {
	books := &mockBooks{}
	books.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Slug == "fiqh-basics" && b.Description == "<p>intro</p>"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Book).ID = 9
	}).Return(nil).Once()
	books.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

	h := newCatalogHandler(books)
	body := `{"title_en":"Fiqh Basics","description":"<p>intro</p><script>x()</script>"}`

	rec := httptest.NewRecorder()
	h.CreateBook(rec, jsonRequest(http.MethodPost, "/api/admin/books", body))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(readEnvelope(t, rec).Data), `"id":9`)

	rec = httptest.NewRecorder()
	h.CreateBook(rec, jsonRequest(http.MethodPost, "/api/admin/books", body))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateBook(rec, jsonRequest(http.MethodPost, "/api/admin/books", `{"description":"no title"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	books.AssertExpectations(t)
}

func TestBookByID_BadID(t *testing.T) {
	h := newCatalogHandler(&mockBooks{})

	rec := httptest.NewRecorder()
	h.DeleteBook(rec, withVars(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": "zero"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.GetBook(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "0"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_EmptyQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	newCatalogHandler(&mockBooks{}).Search(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=+", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"books":[],"videos":[]}`, string(readEnvelope(t, rec).Data))
}

func TestTaxonomy_UnknownKind(t *testing.T) {
	h := NewTaxonomyHandler(services.NewTaxonomyService(nil))

	rec := httptest.NewRecorder()
	h.List(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"kind": "mosques"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
