package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"go.uber.org/zap"
)

// PostStore persists blog_posts rows. It returns bare post rows; the service
// layer assembles blocks and tags into the full aggregate.
type PostStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewPostStore(db *sql.DB, logger *zap.SugaredLogger) *PostStore {
	return &PostStore{db: db, logger: logger}
}

const postColumns = `id, title, slug, cover_image, read_time, views, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*blog.Post, error) {
	var p blog.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.CoverImage, &p.ReadTime, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert stores a new post row and fills the storage-assigned fields on p.
func (s *PostStore) Insert(ctx context.Context, p *blog.Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, cover_image, read_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, views, created_at, updated_at
	`

	err := executorFrom(ctx, s.db).QueryRowContext(ctx, query, p.Title, p.Slug, p.CoverImage, p.ReadTime).
		Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if conflict := postConflict(err, p); conflict != nil {
			return conflict
		}
		return &blog.StorageError{Op: "insert post", Err: err}
	}
	return nil
}

// Update rewrites the mutable columns of an existing post row.
func (s *PostStore) Update(ctx context.Context, p *blog.Post) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, cover_image = $4, read_time = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := executorFrom(ctx, s.db).QueryRowContext(ctx, query, p.ID, p.Title, p.Slug, p.CoverImage, p.ReadTime).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &blog.NotFoundError{Resource: "post", Key: strconv.FormatInt(p.ID, 10)}
		}
		if conflict := postConflict(err, p); conflict != nil {
			return conflict
		}
		return &blog.StorageError{Op: "update post", Err: err}
	}
	return nil
}

func postConflict(err error, p *blog.Post) error {
	switch {
	case uniqueViolation(err, "blog_posts_title_key"):
		return &blog.ConflictError{Resource: "post", Field: "title", Value: p.Title}
	case uniqueViolation(err, "blog_posts_slug_key"):
		return &blog.ConflictError{Resource: "post", Field: "slug", Value: p.Slug}
	}
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (*blog.Post, error) {
	row := executorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &blog.NotFoundError{Resource: "post", Key: strconv.FormatInt(id, 10)}
		}
		return nil, &blog.StorageError{Op: "get post by id", Err: err}
	}
	return p, nil
}

func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	row := executorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &blog.NotFoundError{Resource: "post", Key: slug}
		}
		return nil, &blog.StorageError{Op: "get post by slug", Err: err}
	}
	return p, nil
}

// IncrementViews adds one to the stored view counter as a single atomic
// UPDATE and returns the post-increment value. Concurrent increments cannot
// be lost; there is no read-modify-write.
func (s *PostStore) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := executorFrom(ctx, s.db).QueryRowContext(ctx,
		`UPDATE blog_posts SET views = views + 1 WHERE id = $1 RETURNING views`, id).
		Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &blog.NotFoundError{Resource: "post", Key: strconv.FormatInt(id, 10)}
		}
		return 0, &blog.StorageError{Op: "increment views", Err: err}
	}
	return views, nil
}

// List returns one page of post summaries ordered by creation time
// descending, plus the total row count. Tags are filled in by the caller. A
// page past the end yields an empty slice, not an error.
func (s *PostStore) List(ctx context.Context, page, limit int) ([]blog.PostSummary, int64, error) {
	exec := executorFrom(ctx, s.db)
	offset := (page - 1) * limit

	rows, err := exec.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM blog_posts
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, &blog.StorageError{Op: "list posts", Err: err}
	}
	defer rows.Close()

	summaries := make([]blog.PostSummary, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, &blog.StorageError{Op: "scan post", Err: err}
		}
		summaries = append(summaries, blog.PostSummary{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			CoverImage: p.CoverImage,
			ReadTime:   p.ReadTime,
			Views:      p.Views,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, &blog.StorageError{Op: "list posts", Err: err}
	}

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT count(*) FROM blog_posts`).Scan(&total); err != nil {
		return nil, 0, &blog.StorageError{Op: "count posts", Err: err}
	}
	return summaries, total, nil
}

// ListByTag returns bare post rows associated with the named tag, ordered by
// post id ascending. An unknown tag yields an empty slice.
func (s *PostStore) ListByTag(ctx context.Context, tagName string) ([]*blog.Post, error) {
	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT p.id, p.title, p.slug, p.cover_image, p.read_time, p.views, p.created_at, p.updated_at
		FROM blog_posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
		ORDER BY p.id ASC
	`, tagName)
	if err != nil {
		return nil, &blog.StorageError{Op: "list posts by tag", Err: err}
	}
	defer rows.Close()

	var posts []*blog.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, &blog.StorageError{Op: "scan post", Err: err}
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &blog.StorageError{Op: "list posts by tag", Err: err}
	}
	return posts, nil
}

// Delete removes a post row. Content blocks and tag associations go with it
// through the ON DELETE CASCADE foreign keys; tag entities stay.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := executorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return &blog.StorageError{Op: "delete post", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &blog.StorageError{Op: "delete post", Err: err}
	}
	if affected == 0 {
		return &blog.NotFoundError{Resource: "post", Key: strconv.FormatInt(id, 10)}
	}
	return nil
}
