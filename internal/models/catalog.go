package models

import "time"

type Book struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	TitleAr       string    `json:"title_ar"`
	TitleEn       string    `json:"title_en"`
	Description   string    `json:"description"`
	AuthorID      *int64    `json:"author_id,omitempty"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	PlaceID       *int64    `json:"place_id,omitempty"`
	CoverPath     string    `json:"cover_path"`
	FilePath      string    `json:"file_path"`
	PublishedYear *int      `json:"published_year,omitempty"`
	IsPublished   bool      `json:"is_published"`
	TagIDs        []int64   `json:"tag_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookRequest struct {
	Slug          string  `json:"slug"           validate:"omitempty,max=160"`
	TitleAr       string  `json:"title_ar"       validate:"required_without=TitleEn,max=300"`
	TitleEn       string  `json:"title_en"       validate:"required_without=TitleAr,max=300"`
	Description   string  `json:"description"    validate:"max=20000"`
	AuthorID      *int64  `json:"author_id"      validate:"omitempty,gt=0"`
	CategoryID    *int64  `json:"category_id"    validate:"omitempty,gt=0"`
	PlaceID       *int64  `json:"place_id"       validate:"omitempty,gt=0"`
	CoverPath     string  `json:"cover_path"     validate:"max=500"`
	FilePath      string  `json:"file_path"      validate:"max=500"`
	PublishedYear *int    `json:"published_year" validate:"omitempty,gte=600,lte=2100"`
	IsPublished   bool    `json:"is_published"`
	TagIDs        []int64 `json:"tag_ids"        validate:"max=20,dive,gt=0"`
}

type Video struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	TitleAr         string     `json:"title_ar"`
	TitleEn         string     `json:"title_en"`
	Description     string     `json:"description"`
	URL             string     `json:"url"`
	AuthorID        *int64     `json:"author_id,omitempty"`
	CategoryID      *int64     `json:"category_id,omitempty"`
	PlaceID         *int64     `json:"place_id,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	RecordedAt      *time.Time `json:"recorded_at,omitempty"`
	IsPublished     bool       `json:"is_published"`
	TagIDs          []int64    `json:"tag_ids"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type VideoRequest struct {
	Slug            string     `json:"slug"             validate:"omitempty,max=160"`
	TitleAr         string     `json:"title_ar"         validate:"required_without=TitleEn,max=300"`
	TitleEn         string     `json:"title_en"         validate:"required_without=TitleAr,max=300"`
	Description     string     `json:"description"      validate:"max=20000"`
	URL             string     `json:"url"              validate:"required,url,max=500"`
	AuthorID        *int64     `json:"author_id"        validate:"omitempty,gt=0"`
	CategoryID      *int64     `json:"category_id"      validate:"omitempty,gt=0"`
	PlaceID         *int64     `json:"place_id"         validate:"omitempty,gt=0"`
	DurationSeconds int        `json:"duration_seconds" validate:"gte=0"`
	RecordedAt      *time.Time `json:"recorded_at"`
	IsPublished     bool       `json:"is_published"`
	TagIDs          []int64    `json:"tag_ids"          validate:"max=20,dive,gt=0"`
}

// CatalogFilter narrows public listings; zero values mean "any".
type CatalogFilter struct {
	AuthorID      int64
	CategoryID    int64
	PlaceID       int64
	TagID         int64
	OnlyPublished bool
}

type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

type SearchResult struct {
	Books  []*Book  `json:"books"`
	Videos []*Video `json:"videos"`
}

// Upload describes a file stored in the uploads directory.
type Upload struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
