package service

import (
	"context"

	"github.com/inkwell/inkwell-backend/internal/blog"
	"github.com/stretchr/testify/mock"
)

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) Insert(ctx context.Context, p *blog.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostStore) Update(ctx context.Context, p *blog.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostStore) GetByID(ctx context.Context, id int64) (*blog.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostStore) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostStore) IncrementViews(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostStore) List(ctx context.Context, page, limit int) ([]blog.PostSummary, int64, error) {
	args := m.Called(ctx, page, limit)
	var items []blog.PostSummary
	if args.Get(0) != nil {
		items = args.Get(0).([]blog.PostSummary)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockPostStore) ListByTag(ctx context.Context, tagName string) ([]*blog.Post, error) {
	args := m.Called(ctx, tagName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blog.Post), args.Error(1)
}

func (m *MockPostStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockBlockStore struct {
	mock.Mock
}

func (m *MockBlockStore) InsertForPost(ctx context.Context, postID int64, blocks []blog.Block) error {
	return m.Called(ctx, postID, blocks).Error(0)
}

func (m *MockBlockStore) DeleteForPost(ctx context.Context, postID int64) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockBlockStore) ListForPost(ctx context.Context, postID int64) ([]blog.Block, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.Block), args.Error(1)
}

func (m *MockBlockStore) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Block, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]blog.Block), args.Error(1)
}

type MockTagStore struct {
	mock.Mock
}

func (m *MockTagStore) Insert(ctx context.Context, name string) (blog.Tag, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(blog.Tag), args.Error(1)
}

func (m *MockTagStore) FindByName(ctx context.Context, name string) (blog.Tag, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(blog.Tag), args.Error(1)
}

func (m *MockTagStore) FindByNames(ctx context.Context, names []string) ([]blog.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.Tag), args.Error(1)
}

func (m *MockTagStore) Attach(ctx context.Context, postID, tagID int64) error {
	return m.Called(ctx, postID, tagID).Error(0)
}

func (m *MockTagStore) DetachAll(ctx context.Context, postID int64) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockTagStore) ListForPost(ctx context.Context, postID int64) ([]blog.Tag, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.Tag), args.Error(1)
}

func (m *MockTagStore) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]blog.Tag, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]blog.Tag), args.Error(1)
}

func (m *MockTagStore) ListAll(ctx context.Context) ([]blog.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.Tag), args.Error(1)
}

func (m *MockTagStore) DeleteByName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// Interface checks
var (
	_ PostStore  = (*MockPostStore)(nil)
	_ BlockStore = (*MockBlockStore)(nil)
	_ TagStore   = (*MockTagStore)(nil)
)

// passthroughTx runs the unit of work directly; rollback behavior is the
// repository layer's concern and is not exercised here.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopMetrics struct{}

func (nopMetrics) RecordPostCreated(context.Context)   {}
func (nopMetrics) RecordViewIncrement(context.Context) {}
