package repository

import (
	"context"
	"testing"
	"time"

	"minbar/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyRepo_UnknownKindNeverQueries(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTaxonomyRepo(mock)

	_, err = repo.List(context.Background(), models.TermKind("users; DROP TABLE users"))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxonomyRepo_CreateDuplicateSlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTaxonomyRepo(mock)

	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("fiqh", "فقه", "Fiqh", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = repo.Create(context.Background(), &models.Term{Kind: models.KindTag, Slug: "fiqh", NameAr: "فقه", NameEn: "Fiqh"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxonomyRepo_ListWithCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTaxonomyRepo(mock)

	now := time.Now().UTC()
	mock.ExpectQuery("FROM authors t").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "slug", "name_ar", "name_en", "description", "created_at", "updated_at", "books_count", "videos_count",
		}).AddRow(int64(1), "ibn-baz", "ابن باز", "Ibn Baz", "", now, now, 3, 5))

	terms, err := repo.List(context.Background(), models.KindAuthor)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, 3, terms[0].BooksCount)
	assert.Equal(t, 5, terms[0].VideosCount)
	assert.Equal(t, models.KindAuthor, terms[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxonomyRepo_DeleteMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewTaxonomyRepo(mock)

	mock.ExpectExec("DELETE FROM places").WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), models.KindPlace, 9), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
