package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// catalogWhere builds the WHERE clause shared by book and video listings.
// alias is the main table alias, tagTable/fk describe its tag join table.
func catalogWhere(f models.CatalogFilter, alias, tagTable, fk string) (string, []any) {
	where := []string{}
	args := []any{}
	i := 1

	if f.OnlyPublished {
		where = append(where, alias+".is_published")
	}
	if f.AuthorID > 0 {
		where = append(where, fmt.Sprintf("%s.author_id = $%d", alias, i))
		args = append(args, f.AuthorID)
		i++
	}
	if f.CategoryID > 0 {
		where = append(where, fmt.Sprintf("%s.category_id = $%d", alias, i))
		args = append(args, f.CategoryID)
		i++
	}
	if f.PlaceID > 0 {
		where = append(where, fmt.Sprintf("%s.place_id = $%d", alias, i))
		args = append(args, f.PlaceID)
		i++
	}
	if f.TagID > 0 {
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM %s x WHERE x.%s = %s.id AND x.tag_id = $%d)", tagTable, fk, alias, i))
		args = append(args, f.TagID)
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// replaceTags rewrites the tag links of one row inside tx.
func replaceTags(ctx context.Context, tx pgx.Tx, tagTable, fk string, id int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tagTable, fk), id); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, tag_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, tagTable, fk),
		id, tagIDs,
	)
	return err
}

// ----- Books -----

type BookRepository struct {
	db DB
}

func NewBookRepository(db DB) *BookRepository { return &BookRepository{db: db} }

const bookColumns = `b.id, b.slug, b.title_ar, b.title_en, b.description, b.author_id, b.category_id, b.place_id,
	b.cover_path, b.file_path, b.published_year, b.is_published,
	COALESCE((SELECT array_agg(bt.tag_id ORDER BY bt.tag_id) FROM book_tags bt WHERE bt.book_id = b.id), '{}'::bigint[]),
	b.created_at, b.updated_at`

func scanBook(row pgx.Row) (*models.Book, error) {
	var b models.Book
	err := row.Scan(
		&b.ID, &b.Slug, &b.TitleAr, &b.TitleEn, &b.Description, &b.AuthorID, &b.CategoryID, &b.PlaceID,
		&b.CoverPath, &b.FilePath, &b.PublishedYear, &b.IsPublished,
		&b.TagIDs,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepository) Create(ctx context.Context, b *models.Book) error {
	logger.Log.Info("Creating book (repo)", zap.String("slug", b.Slug))
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO books (slug, title_ar, title_en, description, author_id, category_id, place_id,
		                   cover_path, file_path, published_year, is_published)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		b.Slug, b.TitleAr, b.TitleEn, b.Description, b.AuthorID, b.CategoryID, b.PlaceID,
		b.CoverPath, b.FilePath, b.PublishedYear, b.IsPublished,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteErr(err)
	}
	if err := replaceTags(ctx, tx, "book_tags", "book_id", b.ID, b.TagIDs); err != nil {
		return mapWriteErr(err)
	}
	return tx.Commit(ctx)
}

func (r *BookRepository) Update(ctx context.Context, b *models.Book, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE books SET slug=$1, title_ar=$2, title_en=$3, description=$4, author_id=$5, category_id=$6,
		       place_id=$7, cover_path=$8, file_path=$9, published_year=$10, is_published=$11, updated_at=$12
		WHERE id=$13`,
		b.Slug, b.TitleAr, b.TitleEn, b.Description, b.AuthorID, b.CategoryID,
		b.PlaceID, b.CoverPath, b.FilePath, b.PublishedYear, b.IsPublished, now, b.ID,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := replaceTags(ctx, tx, "book_tags", "book_id", b.ID, b.TagIDs); err != nil {
		return mapWriteErr(err)
	}
	b.UpdatedAt = now
	return tx.Commit(ctx)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id=$1`, id))
	return b, notFound(err)
}

func (r *BookRepository) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books b WHERE b.slug=$1`
	if onlyPublished {
		q += ` AND b.is_published`
	}
	b, err := scanBook(r.db.QueryRow(ctx, q, slug))
	return b, notFound(err)
}

func (r *BookRepository) List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Book, int, error) {
	where, args := catalogWhere(f, "b", "book_tags", "book_id")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books b`+where, args...).Scan(&total); err != nil {
		logger.Log.Error("Failed to count books (repo)", zap.Error(err))
		return nil, 0, err
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM books b%s ORDER BY b.created_at DESC, b.id DESC LIMIT $%d OFFSET $%d`,
		bookColumns, where, n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		logger.Log.Error("Failed to list books (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	list := []*models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

// Search matches published books by title or description.
func (r *BookRepository) Search(ctx context.Context, query string, limit int) ([]*models.Book, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookColumns+` FROM books b
		WHERE b.is_published AND (b.title_ar ILIKE $1 OR b.title_en ILIKE $1 OR b.description ILIKE $1)
		ORDER BY b.created_at DESC LIMIT $2`,
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ----- Videos -----

type VideoRepository struct {
	db DB
}

func NewVideoRepository(db DB) *VideoRepository { return &VideoRepository{db: db} }

const videoColumns = `v.id, v.slug, v.title_ar, v.title_en, v.description, v.url, v.author_id, v.category_id, v.place_id,
	v.duration_seconds, v.recorded_at, v.is_published,
	COALESCE((SELECT array_agg(vt.tag_id ORDER BY vt.tag_id) FROM video_tags vt WHERE vt.video_id = v.id), '{}'::bigint[]),
	v.created_at, v.updated_at`

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.Slug, &v.TitleAr, &v.TitleEn, &v.Description, &v.URL, &v.AuthorID, &v.CategoryID, &v.PlaceID,
		&v.DurationSeconds, &v.RecordedAt, &v.IsPublished,
		&v.TagIDs,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) Create(ctx context.Context, v *models.Video) error {
	logger.Log.Info("Creating video (repo)", zap.String("slug", v.Slug))
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO videos (slug, title_ar, title_en, description, url, author_id, category_id, place_id,
		                    duration_seconds, recorded_at, is_published)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at`,
		v.Slug, v.TitleAr, v.TitleEn, v.Description, v.URL, v.AuthorID, v.CategoryID, v.PlaceID,
		v.DurationSeconds, v.RecordedAt, v.IsPublished,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return mapWriteErr(err)
	}
	if err := replaceTags(ctx, tx, "video_tags", "video_id", v.ID, v.TagIDs); err != nil {
		return mapWriteErr(err)
	}
	return tx.Commit(ctx)
}

func (r *VideoRepository) Update(ctx context.Context, v *models.Video, now time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE videos SET slug=$1, title_ar=$2, title_en=$3, description=$4, url=$5, author_id=$6,
		       category_id=$7, place_id=$8, duration_seconds=$9, recorded_at=$10, is_published=$11, updated_at=$12
		WHERE id=$13`,
		v.Slug, v.TitleAr, v.TitleEn, v.Description, v.URL, v.AuthorID,
		v.CategoryID, v.PlaceID, v.DurationSeconds, v.RecordedAt, v.IsPublished, now, v.ID,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := replaceTags(ctx, tx, "video_tags", "video_id", v.ID, v.TagIDs); err != nil {
		return mapWriteErr(err)
	}
	v.UpdatedAt = now
	return tx.Commit(ctx)
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	v, err := scanVideo(r.db.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos v WHERE v.id=$1`, id))
	return v, notFound(err)
}

func (r *VideoRepository) GetBySlug(ctx context.Context, slug string, onlyPublished bool) (*models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v WHERE v.slug=$1`
	if onlyPublished {
		q += ` AND v.is_published`
	}
	v, err := scanVideo(r.db.QueryRow(ctx, q, slug))
	return v, notFound(err)
}

func (r *VideoRepository) List(ctx context.Context, f models.CatalogFilter, limit, offset int) ([]*models.Video, int, error) {
	where, args := catalogWhere(f, "v", "video_tags", "video_id")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		logger.Log.Error("Failed to count videos (repo)", zap.Error(err))
		return nil, 0, err
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM videos v%s ORDER BY v.created_at DESC, v.id DESC LIMIT $%d OFFSET $%d`,
		videoColumns, where, n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		logger.Log.Error("Failed to list videos (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	list := []*models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

func (r *VideoRepository) Search(ctx context.Context, query string, limit int) ([]*models.Video, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+videoColumns+` FROM videos v
		WHERE v.is_published AND (v.title_ar ILIKE $1 OR v.title_en ILIKE $1 OR v.description ILIKE $1)
		ORDER BY v.created_at DESC LIMIT $2`,
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
