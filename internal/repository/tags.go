package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"go.uber.org/zap"
)

// TagStore persists tags and the post_tags association table.
type TagStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewTagStore(db *sql.DB, logger *zap.SugaredLogger) *TagStore {
	return &TagStore{db: db, logger: logger}
}

// Insert creates a new tag row. ON CONFLICT DO NOTHING keeps a lost
// creation race from aborting the surrounding transaction; the race surfaces
// as a ConflictError and callers reconcile by reloading the winner's row.
func (s *TagStore) Insert(ctx context.Context, name string) (blog.Tag, error) {
	var tag blog.Tag
	err := executorFrom(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name
	`, name).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || uniqueViolation(err, "tags_name_key") {
			return blog.Tag{}, &blog.ConflictError{Resource: "tag", Field: "name", Value: name}
		}
		return blog.Tag{}, &blog.StorageError{Op: "insert tag", Err: err}
	}
	return tag, nil
}

func (s *TagStore) FindByName(ctx context.Context, name string) (blog.Tag, error) {
	var tag blog.Tag
	err := executorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE name = $1`, name).
		Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return blog.Tag{}, &blog.NotFoundError{Resource: "tag", Key: name}
		}
		return blog.Tag{}, &blog.StorageError{Op: "find tag", Err: err}
	}
	return tag, nil
}

// FindByNames batch-loads the tags whose names appear in names. Missing
// names are simply absent from the result.
func (s *TagStore) FindByNames(ctx context.Context, names []string) ([]blog.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT id, name FROM tags WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, &blog.StorageError{Op: "find tags", Err: err}
	}
	defer rows.Close()

	return collectTags(rows)
}

// Attach associates the post with the tag. Attaching twice is a no-op, so
// retried reconciliations never produce duplicate association rows.
func (s *TagStore) Attach(ctx context.Context, postID, tagID int64) error {
	_, err := executorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, tag_id) DO NOTHING
	`, postID, tagID)
	if err != nil {
		return &blog.StorageError{Op: "attach tag", Err: err}
	}
	return nil
}

// DetachAll removes every tag association of the post. Tag entities are
// never deleted here.
func (s *TagStore) DetachAll(ctx context.Context, postID int64) error {
	_, err := executorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = $1`, postID)
	if err != nil {
		return &blog.StorageError{Op: "detach tags", Err: err}
	}
	return nil
}

// ListForPost returns the post's tags ordered by name.
func (s *TagStore) ListForPost(ctx context.Context, postID int64) ([]blog.Tag, error) {
	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name ASC
	`, postID)
	if err != nil {
		return nil, &blog.StorageError{Op: "list tags for post", Err: err}
	}
	defer rows.Close()

	return collectTags(rows)
}

// ListForPosts loads the tags of several posts in one query, keyed by post id.
func (s *TagStore) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Tag, error) {
	byPost := make(map[int64][]blog.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.post_id ASC, t.name ASC
	`, postIDs)
	if err != nil {
		return nil, &blog.StorageError{Op: "list tags for posts", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var tag blog.Tag
		if err := rows.Scan(&postID, &tag.ID, &tag.Name); err != nil {
			return nil, &blog.StorageError{Op: "scan tag", Err: err}
		}
		byPost[postID] = append(byPost[postID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, &blog.StorageError{Op: "list tags for posts", Err: err}
	}
	return byPost, nil
}

// ListAll returns every tag ordered by name.
func (s *TagStore) ListAll(ctx context.Context) ([]blog.Tag, error) {
	rows, err := executorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, &blog.StorageError{Op: "list tags", Err: err}
	}
	defer rows.Close()

	return collectTags(rows)
}

// DeleteByName removes a tag entity. Its post associations go with it through
// the ON DELETE CASCADE foreign key; posts are untouched.
func (s *TagStore) DeleteByName(ctx context.Context, name string) error {
	res, err := executorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM tags WHERE name = $1`, name)
	if err != nil {
		return &blog.StorageError{Op: "delete tag", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &blog.StorageError{Op: "delete tag", Err: err}
	}
	if affected == 0 {
		return &blog.NotFoundError{Resource: "tag", Key: name}
	}
	return nil
}

func collectTags(rows *sql.Rows) ([]blog.Tag, error) {
	var tags []blog.Tag
	for rows.Next() {
		var tag blog.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, &blog.StorageError{Op: "scan tag", Err: err}
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, &blog.StorageError{Op: "list tags", Err: err}
	}
	return tags, nil
}
