package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrUnknownKind is returned for a TermKind with no backing table.
var ErrUnknownKind = errors.New("unknown term kind")

// Published usage counts per kind. Table names never come from user input.
var termCounts = map[models.TermKind][2]string{
	models.KindAuthor: {
		`(SELECT COUNT(*) FROM books b WHERE b.author_id = t.id AND b.is_published)`,
		`(SELECT COUNT(*) FROM videos v WHERE v.author_id = t.id AND v.is_published)`,
	},
	models.KindCategory: {
		`(SELECT COUNT(*) FROM books b WHERE b.category_id = t.id AND b.is_published)`,
		`(SELECT COUNT(*) FROM videos v WHERE v.category_id = t.id AND v.is_published)`,
	},
	models.KindPlace: {
		`(SELECT COUNT(*) FROM books b WHERE b.place_id = t.id AND b.is_published)`,
		`(SELECT COUNT(*) FROM videos v WHERE v.place_id = t.id AND v.is_published)`,
	},
	models.KindTag: {
		`(SELECT COUNT(*) FROM book_tags bt JOIN books b ON b.id = bt.book_id WHERE bt.tag_id = t.id AND b.is_published)`,
		`(SELECT COUNT(*) FROM video_tags vt JOIN videos v ON v.id = vt.video_id WHERE vt.tag_id = t.id AND v.is_published)`,
	},
}

type TaxonomyRepo struct {
	db DB
}

func NewTaxonomyRepo(db DB) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

func table(kind models.TermKind) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	return string(kind), nil
}

const termColumns = `id, slug, name_ar, name_en, description, created_at, updated_at`

func scanTerm(row pgx.Row, kind models.TermKind) (*models.Term, error) {
	t := models.Term{Kind: kind}
	if err := row.Scan(&t.ID, &t.Slug, &t.NameAr, &t.NameEn, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaxonomyRepo) Create(ctx context.Context, t *models.Term) error {
	tbl, err := table(t.Kind)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (slug, name_ar, name_en, description) VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`, tbl),
		t.Slug, t.NameAr, t.NameEn, t.Description,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		logger.Log.Error("Failed to create term (repo)", zap.String("kind", tbl), zap.Error(err))
	}
	return err
}

func (r *TaxonomyRepo) Update(ctx context.Context, t *models.Term, now time.Time) error {
	tbl, err := table(t.Kind)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET slug=$1, name_ar=$2, name_en=$3, description=$4, updated_at=$5 WHERE id=$6`, tbl),
		t.Slug, t.NameAr, t.NameEn, t.Description, now, t.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (r *TaxonomyRepo) Delete(ctx context.Context, kind models.TermKind, id int64) error {
	tbl, err := table(kind)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, tbl), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) GetByID(ctx context.Context, kind models.TermKind, id int64) (*models.Term, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	t, err := scanTerm(r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, termColumns, tbl), id), kind)
	return t, notFound(err)
}

func (r *TaxonomyRepo) GetBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	t, err := scanTerm(r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE slug=$1`, termColumns, tbl), slug), kind)
	return t, notFound(err)
}

// List returns every term of kind with its published books/videos counts.
func (r *TaxonomyRepo) List(ctx context.Context, kind models.TermKind) ([]models.TermWithCount, error) {
	tbl, err := table(kind)
	if err != nil {
		return nil, err
	}
	counts := termCounts[kind]
	q := fmt.Sprintf(`
SELECT t.id, t.slug, t.name_ar, t.name_en, t.description, t.created_at, t.updated_at,
       %s AS books_count, %s AS videos_count
FROM %s t
ORDER BY t.name_ar, t.id`, counts[0], counts[1], tbl)

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		logger.Log.Error("Failed to list terms (repo)", zap.String("kind", tbl), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := []models.TermWithCount{}
	for rows.Next() {
		tc := models.TermWithCount{Term: models.Term{Kind: kind}}
		if err := rows.Scan(
			&tc.ID, &tc.Slug, &tc.NameAr, &tc.NameEn, &tc.Description, &tc.CreatedAt, &tc.UpdatedAt,
			&tc.BooksCount, &tc.VideosCount,
		); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
