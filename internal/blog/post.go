package blog

import "time"

// Post is the aggregate root: a post row together with its ordered content
// blocks and its tag set. Blocks are exclusively owned (deleted with the
// post); tags are shared and outlive any single post.
type Post struct {
	ID         int64
	Title      string
	Slug       string
	CoverImage string
	ReadTime   int
	Views      int64
	Blocks     []Block
	Tags       []Tag
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Tag is a shared taxonomy entry. Name is unique, case-sensitive as stored.
type Tag struct {
	ID   int64
	Name string
}

// PostSummary is the listing projection of a post: everything except the
// content blocks.
type PostSummary struct {
	ID         int64
	Title      string
	Slug       string
	CoverImage string
	ReadTime   int
	Views      int64
	Tags       []Tag
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PostPage is one page of a post listing, newest first.
type PostPage struct {
	Items []PostSummary
	Total int64
	Page  int
	Limit int
}
