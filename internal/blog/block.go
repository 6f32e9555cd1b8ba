package blog

import (
	"fmt"
	"net/url"
	"strings"
)

// BlockType discriminates the closed set of content block variants.
type BlockType string

const (
	BlockTypeText    BlockType = "text"
	BlockTypeHeading BlockType = "heading"
	BlockTypeDivider BlockType = "divider"
	BlockTypeImage   BlockType = "image"
	BlockTypeVideo   BlockType = "video"
	BlockTypeCode    BlockType = "code"
	BlockTypeList    BlockType = "list"
)

var headingLevels = map[string]struct{}{
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "p": {},
}

const (
	ListKindOrdered   = "ordered"
	ListKindUnordered = "unordered"
)

// Link is an inline link carried by text and list blocks.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Heading is the payload of a heading block. The wire field for the level is
// "type" for compatibility with the editor format.
type Heading struct {
	Level string `json:"type"`
	Text  string `json:"text"`
}

// ListPayload is the payload of a list block. Kind is "ordered" or
// "unordered"; the wire field is "type".
type ListPayload struct {
	Kind  string   `json:"type"`
	Items []string `json:"content"`
}

// Block is one typed unit of post body content. The variant set is closed:
// each variant carries only the fields its type requires, so a block can
// never hold payload belonging to another type.
type Block interface {
	Type() BlockType

	// validate checks the per-type field requirements. pos is the 1-based
	// position used in error messages; uploadsPrefix is the accepted local
	// path namespace for image URLs.
	validate(pos int, uploadsPrefix string) error
}

type TextBlock struct {
	Content string
	Links   []Link
}

func (TextBlock) Type() BlockType { return BlockTypeText }

func (b TextBlock) validate(pos int, _ string) error {
	if strings.TrimSpace(b.Content) == "" {
		return &ValidationError{Position: pos, Field: "content", Message: "text content is required"}
	}
	return nil
}

type HeadingBlock struct {
	Heading Heading
}

func (HeadingBlock) Type() BlockType { return BlockTypeHeading }

func (b HeadingBlock) validate(pos int, _ string) error {
	if _, ok := headingLevels[b.Heading.Level]; !ok {
		return &ValidationError{Position: pos, Field: "title.type", Message: fmt.Sprintf("unknown heading level %q", b.Heading.Level)}
	}
	if strings.TrimSpace(b.Heading.Text) == "" {
		return &ValidationError{Position: pos, Field: "title.text", Message: "heading text is required"}
	}
	return nil
}

type DividerBlock struct{}

func (DividerBlock) Type() BlockType { return BlockTypeDivider }

func (DividerBlock) validate(int, string) error { return nil }

type ImageBlock struct {
	ImageURL string
	// Caption is optional display text below the image.
	Caption string
}

func (ImageBlock) Type() BlockType { return BlockTypeImage }

func (b ImageBlock) validate(pos int, uploadsPrefix string) error {
	if !ValidImageURL(b.ImageURL, uploadsPrefix) {
		return &ValidationError{Position: pos, Field: "imageUrl", Message: "imageUrl must be an http(s) URL or an uploads path"}
	}
	return nil
}

type VideoBlock struct {
	URL string
}

func (VideoBlock) Type() BlockType { return BlockTypeVideo }

func (b VideoBlock) validate(pos int, _ string) error {
	if strings.TrimSpace(b.URL) == "" {
		return &ValidationError{Position: pos, Field: "content", Message: "video URL is required"}
	}
	return nil
}

type CodeBlock struct {
	Content  string
	Language string
}

func (CodeBlock) Type() BlockType { return BlockTypeCode }

func (b CodeBlock) validate(pos int, _ string) error {
	if b.Content == "" {
		return &ValidationError{Position: pos, Field: "content", Message: "code content is required"}
	}
	if strings.TrimSpace(b.Language) == "" {
		return &ValidationError{Position: pos, Field: "codeType", Message: "code language is required"}
	}
	return nil
}

type ListBlock struct {
	List  ListPayload
	Links []Link
}

func (ListBlock) Type() BlockType { return BlockTypeList }

func (b ListBlock) validate(pos int, _ string) error {
	if b.List.Kind != ListKindOrdered && b.List.Kind != ListKindUnordered {
		return &ValidationError{Position: pos, Field: "list.type", Message: fmt.Sprintf("unknown list kind %q", b.List.Kind)}
	}
	if len(b.List.Items) == 0 {
		return &ValidationError{Position: pos, Field: "list.content", Message: "list requires at least one item"}
	}
	for i, item := range b.List.Items {
		if strings.TrimSpace(item) == "" {
			return &ValidationError{Position: pos, Field: "list.content", Message: fmt.Sprintf("list item %d is empty", i+1)}
		}
	}
	return nil
}

// ValidImageURL accepts an absolute http(s) URL or a path under the uploads
// namespace. Existence of the target is not checked here.
func ValidImageURL(raw, uploadsPrefix string) bool {
	if uploadsPrefix != "" && strings.HasPrefix(raw, uploadsPrefix) {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// ValidateBlocks checks every block against its per-type rules. The returned
// error is a *ValidationError carrying the 1-based position of the first
// failing block.
func ValidateBlocks(blocks []Block, uploadsPrefix string) error {
	for i, b := range blocks {
		if err := b.validate(i+1, uploadsPrefix); err != nil {
			return err
		}
	}
	return nil
}
