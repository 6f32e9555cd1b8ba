package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_slug_key"}

	assert.True(t, uniqueViolation(dup, "blog_posts_slug_key"))
	assert.True(t, uniqueViolation(dup, ""))
	assert.False(t, uniqueViolation(dup, "blog_posts_title_key"))

	wrapped := fmt.Errorf("insert post: %w", dup)
	assert.True(t, uniqueViolation(wrapped, "blog_posts_slug_key"))

	assert.False(t, uniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, uniqueViolation(errors.New("plain"), ""))
	assert.False(t, uniqueViolation(nil, ""))
}
