package blog

import "fmt"

// BlockEnvelope is the wire and storage form of a content block: a flat
// record carrying the discriminant plus every optional payload field. Editors
// may also send a transient correlation id and an order hint; both are
// dropped during normalization: storage assigns ids and position follows
// input sequence.
type BlockEnvelope struct {
	Type     BlockType    `json:"type,omitempty"`
	ClientID string       `json:"id,omitempty"`
	Order    int          `json:"order,omitempty"`
	Content  string       `json:"content,omitempty"`
	Title    *Heading     `json:"title,omitempty"`
	List     *ListPayload `json:"list,omitempty"`
	Links    []Link       `json:"links,omitempty"`
	ImageURL string       `json:"imageUrl,omitempty"`
	CodeType string       `json:"codeType,omitempty"`
}

// Decode converts the envelope into its typed variant, keeping only the
// fields the discriminant calls for.
func (e BlockEnvelope) Decode() (Block, error) {
	switch e.Type {
	case BlockTypeText:
		return TextBlock{Content: e.Content, Links: e.Links}, nil
	case BlockTypeHeading:
		var h Heading
		if e.Title != nil {
			h = *e.Title
		}
		return HeadingBlock{Heading: h}, nil
	case BlockTypeDivider:
		return DividerBlock{}, nil
	case BlockTypeImage:
		return ImageBlock{ImageURL: e.ImageURL, Caption: e.Content}, nil
	case BlockTypeVideo:
		return VideoBlock{URL: e.Content}, nil
	case BlockTypeCode:
		return CodeBlock{Content: e.Content, Language: e.CodeType}, nil
	case BlockTypeList:
		var l ListPayload
		if e.List != nil {
			l = *e.List
		}
		return ListBlock{List: l, Links: e.Links}, nil
	default:
		return nil, fmt.Errorf("unknown content block type %q", e.Type)
	}
}

// EncodeBlock flattens a typed block back into its envelope form.
func EncodeBlock(b Block) BlockEnvelope {
	switch v := b.(type) {
	case TextBlock:
		return BlockEnvelope{Type: BlockTypeText, Content: v.Content, Links: v.Links}
	case HeadingBlock:
		h := v.Heading
		return BlockEnvelope{Type: BlockTypeHeading, Title: &h}
	case DividerBlock:
		return BlockEnvelope{Type: BlockTypeDivider}
	case ImageBlock:
		return BlockEnvelope{Type: BlockTypeImage, ImageURL: v.ImageURL, Content: v.Caption}
	case VideoBlock:
		return BlockEnvelope{Type: BlockTypeVideo, Content: v.URL}
	case CodeBlock:
		return BlockEnvelope{Type: BlockTypeCode, Content: v.Content, CodeType: v.Language}
	case ListBlock:
		l := v.List
		return BlockEnvelope{Type: BlockTypeList, List: &l, Links: v.Links}
	default:
		panic(fmt.Sprintf("unhandled block variant %T", b))
	}
}

// NormalizeBlocks decodes incoming envelopes into typed blocks in input
// order. Position is implicit in slice order (1-based when persisted); client
// correlation ids and client-supplied order are discarded. An unknown
// discriminant is reported as a ValidationError scoped to the block position.
func NormalizeBlocks(envs []BlockEnvelope) ([]Block, error) {
	blocks := make([]Block, 0, len(envs))
	for i, e := range envs {
		b, err := e.Decode()
		if err != nil {
			return nil, &ValidationError{Position: i + 1, Field: "type", Message: err.Error()}
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
