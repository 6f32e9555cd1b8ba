package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"go.uber.org/zap"
)

// BlockStore persists content_blocks rows. Blocks are replaced wholesale on
// update, never patched, so the API is delete-all plus insert-all.
type BlockStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewBlockStore(db *sql.DB, logger *zap.SugaredLogger) *BlockStore {
	return &BlockStore{db: db, logger: logger}
}

// InsertForPost stores blocks bound to postID with contiguous positions 1..N
// following slice order. The unique index on (post_id, block_order) rejects
// any duplicate position.
func (s *BlockStore) InsertForPost(ctx context.Context, postID int64, blocks []blog.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	exec := executorFrom(ctx, s.db)
	query := `
		INSERT INTO content_blocks (post_id, block_type, block_order, payload)
		VALUES ($1, $2, $3, $4)
	`

	for i, b := range blocks {
		env := blog.EncodeBlock(b)
		env.Type = "" // discriminant lives in its own column
		payload, err := json.Marshal(env)
		if err != nil {
			return &blog.StorageError{Op: "marshal block payload", Err: err}
		}

		if _, err := exec.ExecContext(ctx, query, postID, string(b.Type()), i+1, payload); err != nil {
			return &blog.StorageError{Op: "insert content block", Err: err}
		}
	}

	s.logger.Debugw("stored content blocks", "post_id", postID, "count", len(blocks))
	return nil
}

// DeleteForPost removes every block owned by the post.
func (s *BlockStore) DeleteForPost(ctx context.Context, postID int64) error {
	_, err := executorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM content_blocks WHERE post_id = $1`, postID)
	if err != nil {
		return &blog.StorageError{Op: "delete content blocks", Err: err}
	}
	return nil
}

// ListForPost returns the post's blocks ordered by position ascending.
func (s *BlockStore) ListForPost(ctx context.Context, postID int64) ([]blog.Block, error) {
	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT block_type, payload
		FROM content_blocks
		WHERE post_id = $1
		ORDER BY block_order ASC
	`, postID)
	if err != nil {
		return nil, &blog.StorageError{Op: "list content blocks", Err: err}
	}
	defer rows.Close()

	var blocks []blog.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &blog.StorageError{Op: "list content blocks", Err: err}
	}
	return blocks, nil
}

// ListForPosts loads the ordered blocks of several posts in one query, keyed
// by post id.
func (s *BlockStore) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Block, error) {
	byPost := make(map[int64][]blog.Block, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	rows, err := executorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT post_id, block_type, payload
		FROM content_blocks
		WHERE post_id = ANY($1)
		ORDER BY post_id ASC, block_order ASC
	`, postIDs)
	if err != nil {
		return nil, &blog.StorageError{Op: "list content blocks", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var blockType string
		var payload []byte
		if err := rows.Scan(&postID, &blockType, &payload); err != nil {
			return nil, &blog.StorageError{Op: "scan content block", Err: err}
		}
		b, err := decodeBlockRow(blockType, payload)
		if err != nil {
			return nil, err
		}
		byPost[postID] = append(byPost[postID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, &blog.StorageError{Op: "list content blocks", Err: err}
	}
	return byPost, nil
}

func scanBlock(rows *sql.Rows) (blog.Block, error) {
	var blockType string
	var payload []byte
	if err := rows.Scan(&blockType, &payload); err != nil {
		return nil, &blog.StorageError{Op: "scan content block", Err: err}
	}
	return decodeBlockRow(blockType, payload)
}

func decodeBlockRow(blockType string, payload []byte) (blog.Block, error) {
	var env blog.BlockEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &blog.StorageError{Op: "unmarshal block payload", Err: err}
	}
	env.Type = blog.BlockType(blockType)

	b, err := env.Decode()
	if err != nil {
		return nil, &blog.StorageError{Op: "decode content block", Err: err}
	}
	return b, nil
}
