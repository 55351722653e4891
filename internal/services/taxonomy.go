package services

import (
	"context"
	"strings"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"
	"minbar/internal/validation"

	"go.uber.org/zap"
)

type TermRepo interface {
	Create(ctx context.Context, t *models.Term) error
	Update(ctx context.Context, t *models.Term, now time.Time) error
	Delete(ctx context.Context, kind models.TermKind, id int64) error
	GetByID(ctx context.Context, kind models.TermKind, id int64) (*models.Term, error)
	GetBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error)
	List(ctx context.Context, kind models.TermKind) ([]models.TermWithCount, error)
}

// TaxonomyService manages authors, categories, tags and places.
type TaxonomyService struct {
	repo TermRepo
	now  func() time.Time
}

func NewTaxonomyService(repo TermRepo) *TaxonomyService {
	return &TaxonomyService{repo: repo, now: time.Now}
}

func (s *TaxonomyService) build(kind models.TermKind, in *models.TermRequest) (*models.Term, error) {
	if !kind.Valid() {
		return nil, ErrNotFound
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	sl, err := makeSlug(in.Slug, in.NameEn, in.NameAr)
	if err != nil {
		return nil, err
	}
	return &models.Term{
		Kind:        kind,
		Slug:        sl,
		NameAr:      strings.TrimSpace(in.NameAr),
		NameEn:      strings.TrimSpace(in.NameEn),
		Description: strings.TrimSpace(in.Description),
	}, nil
}

func (s *TaxonomyService) Create(ctx context.Context, kind models.TermKind, in *models.TermRequest) (*models.Term, error) {
	t, err := s.build(kind, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, mapRepoErr(err)
	}
	logger.WithCtx(ctx).Info("Term created (service)", zap.String("kind", string(kind)), zap.Int64("id", t.ID))
	return t, nil
}

func (s *TaxonomyService) Update(ctx context.Context, kind models.TermKind, id int64, in *models.TermRequest) (*models.Term, error) {
	t, err := s.build(kind, in)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.repo.Update(ctx, t, s.now()); err != nil {
		return nil, mapRepoErr(err)
	}
	return s.Get(ctx, kind, id)
}

func (s *TaxonomyService) Delete(ctx context.Context, kind models.TermKind, id int64) error {
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return mapRepoErr(err)
	}
	logger.WithCtx(ctx).Info("Term deleted (service)", zap.String("kind", string(kind)), zap.Int64("id", id))
	return nil
}

func (s *TaxonomyService) Get(ctx context.Context, kind models.TermKind, id int64) (*models.Term, error) {
	t, err := s.repo.GetByID(ctx, kind, id)
	return t, mapRepoErr(err)
}

func (s *TaxonomyService) GetBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error) {
	t, err := s.repo.GetBySlug(ctx, kind, slug)
	return t, mapRepoErr(err)
}

func (s *TaxonomyService) List(ctx context.Context, kind models.TermKind) ([]models.TermWithCount, error) {
	if !kind.Valid() {
		return nil, ErrNotFound
	}
	list, err := s.repo.List(ctx, kind)
	return list, mapRepoErr(err)
}
