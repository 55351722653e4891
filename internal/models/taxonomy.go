package models

import "time"

// TermKind names one of the flat lookup tables of the catalog.
type TermKind string

const (
	KindAuthor   TermKind = "authors"
	KindCategory TermKind = "categories"
	KindTag      TermKind = "tags"
	KindPlace    TermKind = "places"
)

func (k TermKind) Valid() bool {
	switch k {
	case KindAuthor, KindCategory, KindTag, KindPlace:
		return true
	}
	return false
}

// Term is an author, category, tag or place.
type Term struct {
	ID          int64     `json:"id"`
	Kind        TermKind  `json:"-"`
	Slug        string    `json:"slug"`
	NameAr      string    `json:"name_ar"`
	NameEn      string    `json:"name_en"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TermWithCount struct {
	Term
	BooksCount  int `json:"books_count"`
	VideosCount int `json:"videos_count"`
}

type TermRequest struct {
	Slug        string `json:"slug"        validate:"omitempty,max=120"`
	NameAr      string `json:"name_ar"     validate:"required_without=NameEn,max=200"`
	NameEn      string `json:"name_en"     validate:"required_without=NameAr,max=200"`
	Description string `json:"description" validate:"max=2000"`
}
