package api

import (
	"time"

	"github.com/inkwell/inkwell-backend/internal/blog"
)

// TagRef names a tag inside post payloads.
type TagRef struct {
	Name string `json:"name"`
}

type CreatePostRequest struct {
	Title         string               `json:"title"`
	CoverImage    string               `json:"coverImage"`
	ContentBlocks []blog.BlockEnvelope `json:"contentBlocks"`
	Tags          []TagRef             `json:"tags"`
}

// UpdatePostRequest is a partial update: nil fields stay unchanged, a
// supplied ContentBlocks or Tags slice replaces the sub-resource wholesale.
type UpdatePostRequest struct {
	Title         *string              `json:"title"`
	CoverImage    *string              `json:"coverImage"`
	ContentBlocks []blog.BlockEnvelope `json:"contentBlocks"`
	Tags          []TagRef             `json:"tags"`
}

type ContentBlockResponse struct {
	Type     blog.BlockType    `json:"type"`
	Order    int               `json:"order"`
	Title    *blog.Heading     `json:"title,omitempty"`
	Content  string            `json:"content,omitempty"`
	List     *blog.ListPayload `json:"list,omitempty"`
	Links    []blog.Link       `json:"links,omitempty"`
	ImageURL string            `json:"imageUrl,omitempty"`
	CodeType string            `json:"codeType,omitempty"`
}

type PostSummaryResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	CoverImage string    `json:"coverImage"`
	ReadTime   int       `json:"readTime"`
	Views      int64     `json:"views"`
	Tags       []TagRef  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type PostResponse struct {
	PostSummaryResponse
	ContentBlocks []ContentBlockResponse `json:"contentBlocks"`
}

type PaginatedPostsResponse struct {
	Items []PostSummaryResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Position int    `json:"position,omitempty"`
}

func mapTags(tags []blog.Tag) []TagRef {
	refs := make([]TagRef, 0, len(tags))
	for _, t := range tags {
		refs = append(refs, TagRef{Name: t.Name})
	}
	return refs
}

// tagNames keeps the nil/non-nil distinction: a nil slice means "not
// supplied" for partial updates.
func tagNames(refs []TagRef) []string {
	if refs == nil {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

func mapBlocks(blocks []blog.Block) []ContentBlockResponse {
	out := make([]ContentBlockResponse, 0, len(blocks))
	for i, b := range blocks {
		env := blog.EncodeBlock(b)
		out = append(out, ContentBlockResponse{
			Type:     env.Type,
			Order:    i + 1,
			Title:    env.Title,
			Content:  env.Content,
			List:     env.List,
			Links:    env.Links,
			ImageURL: env.ImageURL,
			CodeType: env.CodeType,
		})
	}
	return out
}

func mapSummary(s blog.PostSummary) PostSummaryResponse {
	return PostSummaryResponse{
		ID:         s.ID,
		Title:      s.Title,
		Slug:       s.Slug,
		CoverImage: s.CoverImage,
		ReadTime:   s.ReadTime,
		Views:      s.Views,
		Tags:       mapTags(s.Tags),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func mapPost(p *blog.Post) PostResponse {
	return PostResponse{
		PostSummaryResponse: PostSummaryResponse{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			CoverImage: p.CoverImage,
			ReadTime:   p.ReadTime,
			Views:      p.Views,
			Tags:       mapTags(p.Tags),
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		},
		ContentBlocks: mapBlocks(p.Blocks),
	}
}
