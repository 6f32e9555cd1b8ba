package blog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBlocks(t *testing.T) {
	envs := []BlockEnvelope{
		{Type: BlockTypeHeading, ClientID: "tmp-1", Order: 9, Title: &Heading{Level: "h1", Text: "Intro"}},
		{Type: BlockTypeText, ClientID: "tmp-2", Order: 3, Content: "body"},
		{Type: BlockTypeDivider},
	}

	blocks, err := NormalizeBlocks(envs)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	// Input sequence wins over any client-supplied order.
	assert.Equal(t, BlockTypeHeading, blocks[0].Type())
	assert.Equal(t, BlockTypeText, blocks[1].Type())
	assert.Equal(t, BlockTypeDivider, blocks[2].Type())

	// Round-tripping through the envelope no longer carries client fields.
	for _, b := range blocks {
		env := EncodeBlock(b)
		assert.Empty(t, env.ClientID)
		assert.Zero(t, env.Order)
	}
}

func TestNormalizeBlocksUnknownType(t *testing.T) {
	_, err := NormalizeBlocks([]BlockEnvelope{
		{Type: BlockTypeText, Content: "fine"},
		{Type: "table"},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 2, vErr.Position)
	assert.Equal(t, "type", vErr.Field)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	blocks := []Block{
		TextBlock{Content: "hello", Links: []Link{{Text: "docs", URL: "https://example.com"}}},
		HeadingBlock{Heading: Heading{Level: "h2", Text: "Section"}},
		DividerBlock{},
		ImageBlock{ImageURL: "/uploads/x.png", Caption: "cap"},
		VideoBlock{URL: "https://example.com/v"},
		CodeBlock{Content: "SELECT 1", Language: "sql"},
		ListBlock{List: ListPayload{Kind: ListKindUnordered, Items: []string{"a", "b"}}},
	}

	for _, b := range blocks {
		env := EncodeBlock(b)
		got, err := env.Decode()
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}

func TestEnvelopeWireFormat(t *testing.T) {
	env := EncodeBlock(HeadingBlock{Heading: Heading{Level: "h3", Text: "Deep"}})
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"heading","title":{"type":"h3","text":"Deep"}}`, string(data))

	env = EncodeBlock(ListBlock{List: ListPayload{Kind: ListKindOrdered, Items: []string{"first"}}})
	data, err = json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"list","list":{"type":"ordered","content":["first"]}}`, string(data))
}
