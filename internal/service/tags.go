package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"go.uber.org/zap"
)

// TagService manages tags independently of any post: listing the taxonomy,
// pre-creating tags, and deleting tag entities.
type TagService struct {
	tags   TagStore
	logger *zap.SugaredLogger
}

func NewTagService(tags TagStore, logger *zap.SugaredLogger) *TagService {
	return &TagService{tags: tags, logger: logger}
}

func (s *TagService) List(ctx context.Context) ([]blog.Tag, error) {
	return s.tags.ListAll(ctx)
}

// Create trims the name and find-or-creates the tag. Creating an existing
// tag returns the existing row rather than an error.
func (s *TagService) Create(ctx context.Context, name string) (blog.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return blog.Tag{}, &blog.ValidationError{Field: "name", Message: "tag name is required"}
	}

	tag, err := s.tags.FindByName(ctx, trimmed)
	if err == nil {
		return tag, nil
	}
	var notFound *blog.NotFoundError
	if !errors.As(err, &notFound) {
		return blog.Tag{}, err
	}

	tag, err = s.tags.Insert(ctx, trimmed)
	if err != nil {
		var conflict *blog.ConflictError
		if errors.As(err, &conflict) {
			return s.tags.FindByName(ctx, trimmed)
		}
		return blog.Tag{}, err
	}
	s.logger.Infow("created tag", "name", tag.Name)
	return tag, nil
}

// Delete removes the tag entity and, through cascade, its post associations.
func (s *TagService) Delete(ctx context.Context, name string) error {
	if err := s.tags.DeleteByName(ctx, name); err != nil {
		return err
	}
	s.logger.Infow("deleted tag", "name", name)
	return nil
}
