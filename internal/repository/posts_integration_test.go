//go:build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// setupTestDB connects to the database named by INK_TEST_POSTGRES_DSN, applies
// the migrations, and truncates the blog tables. Skips when no DSN is set.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("INK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INK_TEST_POSTGRES_DSN not set, skipping integration test")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "../../sql"))

	_, err = db.Exec(`TRUNCATE blog_posts, content_blocks, tags, post_tags RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func TestIncrementViewsConcurrent(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostStore(db, zap.NewNop().Sugar())
	ctx := context.Background()

	post := &blog.Post{
		Title:      "Concurrent Counter",
		Slug:       "concurrent-counter",
		CoverImage: "/uploads/counter.png",
		ReadTime:   1,
	}
	require.NoError(t, store.Insert(ctx, post))
	require.Equal(t, int64(0), post.Views)

	const readers = 50

	var wg sync.WaitGroup
	errs := make(chan error, readers)
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.IncrementViews(ctx, post.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers), got.Views)
}

func TestIncrementViewsReturnsPostIncrementValue(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostStore(db, zap.NewNop().Sugar())
	ctx := context.Background()

	post := &blog.Post{
		Title:      "Counted Once",
		Slug:       "counted-once",
		CoverImage: "/uploads/counted.png",
		ReadTime:   1,
	}
	require.NoError(t, store.Insert(ctx, post))

	views, err := store.IncrementViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	views, err = store.IncrementViews(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)
}
