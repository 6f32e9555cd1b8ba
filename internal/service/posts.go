package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"go.uber.org/zap"
)

const maxTitleLength = 200

// PostStore is the persistence port for post rows.
type PostStore interface {
	Insert(ctx context.Context, p *blog.Post) error
	Update(ctx context.Context, p *blog.Post) error
	GetByID(ctx context.Context, id int64) (*blog.Post, error)
	GetBySlug(ctx context.Context, slug string) (*blog.Post, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, page, limit int) ([]blog.PostSummary, int64, error)
	ListByTag(ctx context.Context, tagName string) ([]*blog.Post, error)
	Delete(ctx context.Context, id int64) error
}

// BlockStore is the persistence port for content blocks.
type BlockStore interface {
	InsertForPost(ctx context.Context, postID int64, blocks []blog.Block) error
	DeleteForPost(ctx context.Context, postID int64) error
	ListForPost(ctx context.Context, postID int64) ([]blog.Block, error)
	ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Block, error)
}

// TagStore is the persistence port for tags and post-tag associations.
type TagStore interface {
	Insert(ctx context.Context, name string) (blog.Tag, error)
	FindByName(ctx context.Context, name string) (blog.Tag, error)
	FindByNames(ctx context.Context, names []string) ([]blog.Tag, error)
	Attach(ctx context.Context, postID, tagID int64) error
	DetachAll(ctx context.Context, postID int64) error
	ListForPost(ctx context.Context, postID int64) ([]blog.Tag, error)
	ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Tag, error)
	ListAll(ctx context.Context) ([]blog.Tag, error)
	DeleteByName(ctx context.Context, name string) error
}

// TxRunner scopes fn to one unit of work: every store call inside fn joins
// the same transaction, and an error rolls the whole unit back.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder receives domain-level counters.
type MetricsRecorder interface {
	RecordPostCreated(ctx context.Context)
	RecordViewIncrement(ctx context.Context)
}

// PostService orchestrates create/read/update/delete of a post together with
// its ordered content blocks and its tag set. Every mutating operation is a
// single transaction; derived fields (slug, read time) are recomputed here,
// never trusted from input.
type PostService struct {
	posts         PostStore
	blocks        BlockStore
	tags          TagStore
	tx            TxRunner
	uploadsPrefix string
	logger        *zap.SugaredLogger
	metrics       MetricsRecorder
}

func NewPostService(
	posts PostStore,
	blocks BlockStore,
	tags TagStore,
	tx TxRunner,
	uploadsPrefix string,
	logger *zap.SugaredLogger,
	metrics MetricsRecorder,
) *PostService {
	return &PostService{
		posts:         posts,
		blocks:        blocks,
		tags:          tags,
		tx:            tx,
		uploadsPrefix: uploadsPrefix,
		logger:        logger,
		metrics:       metrics,
	}
}

// CreatePostInput carries a new post. Blocks arrive in display order.
type CreatePostInput struct {
	Title      string
	CoverImage string
	Blocks     []blog.BlockEnvelope
	Tags       []string
}

// UpdatePostInput carries a partial update. Nil fields are left unchanged;
// a non-nil Blocks or Tags slice (even empty) replaces the whole sub-resource.
type UpdatePostInput struct {
	Title      *string
	CoverImage *string
	Blocks     []blog.BlockEnvelope
	Tags       []string
}

// Create validates and persists a post aggregate in one transaction and
// returns it fully assembled.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*blog.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := s.validateCoverImage(in.CoverImage); err != nil {
		return nil, err
	}

	blocks, err := blog.NormalizeBlocks(in.Blocks)
	if err != nil {
		return nil, err
	}
	if err := blog.ValidateBlocks(blocks, s.uploadsPrefix); err != nil {
		return nil, err
	}

	post := &blog.Post{
		Title:      in.Title,
		Slug:       blog.Slugify(in.Title),
		CoverImage: in.CoverImage,
		ReadTime:   blog.EstimateReadTime(blocks),
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.posts.Insert(ctx, post); err != nil {
			return err
		}
		if err := s.blocks.InsertForPost(ctx, post.ID, blocks); err != nil {
			return err
		}
		tags, err := s.reconcileTags(ctx, post.ID, in.Tags)
		if err != nil {
			return err
		}
		post.Blocks = blocks
		post.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPostCreated(ctx)
	s.logger.Infow("created post", "id", post.ID, "slug", post.Slug, "blocks", len(post.Blocks), "tags", len(post.Tags))
	return post, nil
}

// GetBySlug loads the full aggregate. When incrementView is set, the stored
// view counter is bumped by an atomic add and the returned post carries the
// post-increment value.
func (s *PostService) GetBySlug(ctx context.Context, slug string, incrementView bool) (*blog.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.loadAggregate(ctx, post); err != nil {
		return nil, err
	}

	if incrementView {
		views, err := s.posts.IncrementViews(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		post.Views = views
		s.metrics.RecordViewIncrement(ctx)
	}
	return post, nil
}

// List returns one page of post summaries, newest first. A page past the end
// yields an empty page. The caller boundary clamps page and limit.
func (s *PostService) List(ctx context.Context, page, limit int) (*blog.PostPage, error) {
	items, total, err := s.posts.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	tagsByPost, err := s.tags.ListForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Tags = tagsByPost[items[i].ID]
	}

	return &blog.PostPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Update applies a partial update in one transaction. Supplied blocks and
// tags replace their sub-resource wholesale; a changed title recomputes the
// slug; supplied blocks recompute the read time.
func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput) (*blog.Post, error) {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.CoverImage != nil {
		if err := s.validateCoverImage(*in.CoverImage); err != nil {
			return nil, err
		}
	}

	var newBlocks []blog.Block
	if in.Blocks != nil {
		var err error
		newBlocks, err = blog.NormalizeBlocks(in.Blocks)
		if err != nil {
			return nil, err
		}
		if err := blog.ValidateBlocks(newBlocks, s.uploadsPrefix); err != nil {
			return nil, err
		}
	}

	var post *blog.Post
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		post, err = s.posts.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Title != nil {
			post.Title = *in.Title
			post.Slug = blog.Slugify(*in.Title)
		}
		if in.CoverImage != nil {
			post.CoverImage = *in.CoverImage
		}

		if in.Blocks != nil {
			if err := s.blocks.DeleteForPost(ctx, id); err != nil {
				return err
			}
			if err := s.blocks.InsertForPost(ctx, id, newBlocks); err != nil {
				return err
			}
			post.ReadTime = blog.EstimateReadTime(newBlocks)
			post.Blocks = newBlocks
		} else {
			post.Blocks, err = s.blocks.ListForPost(ctx, id)
			if err != nil {
				return err
			}
		}

		if err := s.posts.Update(ctx, post); err != nil {
			return err
		}

		if in.Tags != nil {
			if err := s.tags.DetachAll(ctx, id); err != nil {
				return err
			}
			post.Tags, err = s.reconcileTags(ctx, id, in.Tags)
			if err != nil {
				return err
			}
		} else {
			post.Tags, err = s.tags.ListForPost(ctx, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("updated post", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// GetByTag returns every post associated with the named tag, each with its
// ordered blocks and tags, sorted by post id ascending. An unknown tag yields
// an empty slice.
func (s *PostService) GetByTag(ctx context.Context, tagName string) ([]*blog.Post, error) {
	posts, err := s.posts.ListByTag(ctx, tagName)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []*blog.Post{}, nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	blocksByPost, err := s.blocks.ListForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	tagsByPost, err := s.tags.ListForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Blocks = blocksByPost[p.ID]
		p.Tags = tagsByPost[p.ID]
	}
	return posts, nil
}

// Delete removes the post. Content blocks and tag associations cascade; tag
// entities survive.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("deleted post", "id", id)
	return nil
}

// reconcileTags find-or-creates each requested tag and attaches the post,
// preserving first-occurrence order and deduplicating names. A lost
// creation race is retried once as a reload before surfacing a conflict.
func (s *PostService) reconcileTags(ctx context.Context, postID int64, names []string) ([]blog.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}

	existing, err := s.tags.FindByNames(ctx, ordered)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]blog.Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	tags := make([]blog.Tag, 0, len(ordered))
	for _, name := range ordered {
		tag, ok := byName[name]
		if !ok {
			tag, err = s.tags.Insert(ctx, name)
			if err != nil {
				var conflict *blog.ConflictError
				if !errors.As(err, &conflict) {
					return nil, err
				}
				// Another request created the tag first; reuse its row. If
				// the winner has not committed yet, the reload misses and
				// the conflict stands.
				var reloadErr error
				tag, reloadErr = s.tags.FindByName(ctx, name)
				if reloadErr != nil {
					var notFound *blog.NotFoundError
					if errors.As(reloadErr, &notFound) {
						return nil, conflict
					}
					return nil, reloadErr
				}
				s.logger.Debugw("tag creation race resolved by reload", "name", name)
			}
		}
		if err := s.tags.Attach(ctx, postID, tag.ID); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *PostService) loadAggregate(ctx context.Context, post *blog.Post) error {
	var err error
	post.Blocks, err = s.blocks.ListForPost(ctx, post.ID)
	if err != nil {
		return err
	}
	post.Tags, err = s.tags.ListForPost(ctx, post.ID)
	return err
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &blog.ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return &blog.ValidationError{Field: "title", Message: "title exceeds 200 characters"}
	}
	return nil
}

// Cover images come from the upload collaborator; only the shape is checked
// here, never existence.
func (s *PostService) validateCoverImage(coverImage string) error {
	if coverImage == "" {
		return &blog.ValidationError{Field: "coverImage", Message: "cover image is required"}
	}
	if !blog.ValidImageURL(coverImage, s.uploadsPrefix) {
		return &blog.ValidationError{Field: "coverImage", Message: "cover image must be an http(s) URL or an uploads path"}
	}
	return nil
}
