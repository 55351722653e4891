package services

import (
	"errors"
	"strings"

	"minbar/internal/repository"
	"minbar/internal/validation"

	"github.com/gosimple/slug"
)

// makeSlug normalizes explicit, or derives a slug from the first non-empty
// fallback. Arabic text is transliterated.
func makeSlug(explicit string, fallbacks ...string) (string, error) {
	src := strings.TrimSpace(explicit)
	for _, f := range fallbacks {
		if src != "" {
			break
		}
		src = strings.TrimSpace(f)
	}
	s := slug.Make(src)
	if s == "" || !slug.IsSlug(s) {
		return "", validation.NewError("slug", "cannot be derived, please provide one")
	}
	return s, nil
}

// mapRepoErr translates repository sentinels into service errors.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrUnknownKind):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrSlugTaken
	case errors.Is(err, repository.ErrBadReference):
		return ErrBadReference
	}
	return err
}
