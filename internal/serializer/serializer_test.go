package serializer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparktype/blockdown/internal/builder"
	"github.com/sparktype/blockdown/internal/scanner"
	"github.com/sparktype/blockdown/internal/types"
)

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = Serialize([]*types.Block{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestSerialize_Leaf(t *testing.T) {
	block := &types.Block{
		ID:      "b1",
		Type:    "core:rich_text",
		Content: map[string]interface{}{"text": "Hello world"},
	}

	out, err := Serialize([]*types.Block{block})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "```block:content\n"))
	assert.Contains(t, out, "id: b1\n")
	assert.Contains(t, out, "type: core:rich_text\n")
	assert.Contains(t, out, "text: Hello world")
	assert.NotContains(t, out, "config")
	assert.NotContains(t, out, "block:end")
}

func TestSerialize_KeyOrderFixed(t *testing.T) {
	block := &types.Block{
		ID:      "b1",
		Type:    "core:image",
		Content: map[string]interface{}{"src": "/a.jpg"},
		Config:  map[string]interface{}{"width": 800},
	}

	out, err := Serialize([]*types.Block{block})
	require.NoError(t, err)

	idIdx := strings.Index(out, "id:")
	typeIdx := strings.Index(out, "type:")
	contentIdx := strings.Index(out, "content:")
	configIdx := strings.Index(out, "config:")
	assert.True(t, idIdx < typeIdx && typeIdx < contentIdx && contentIdx < configIdx,
		"expected id < type < content < config, got:\n%s", out)
}

func TestSerialize_Container(t *testing.T) {
	block := &types.Block{
		ID:     "c1",
		Type:   "core:two_column",
		Config: map[string]interface{}{"layout": "equal"},
		Regions: []types.Region{
			{Name: "column_1", Blocks: []*types.Block{
				{ID: "b1", Type: "core:rich_text", Content: map[string]interface{}{"text": "left"}},
			}},
			{Name: "column_2", Blocks: []*types.Block{
				{ID: "b2", Type: "core:rich_text", Content: map[string]interface{}{"text": "right"}},
			}},
		},
	}

	out, err := Serialize([]*types.Block{block})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "```block:container\n"))
	assert.Contains(t, out, "---region:column_1---")
	assert.Contains(t, out, "---region:column_2---")
	assert.Contains(t, out, "```block:end\n```")

	// Regions in recorded order
	assert.Less(t,
		strings.Index(out, "---region:column_1---"),
		strings.Index(out, "---region:column_2---"),
	)
}

func TestSerialize_RegionOrderNotResorted(t *testing.T) {
	block := &types.Block{
		ID:   "c1",
		Type: "core:two_column",
		Regions: []types.Region{
			{Name: "zeta"},
			{Name: "alpha"},
		},
	}

	out, err := Serialize([]*types.Block{block})
	require.NoError(t, err)
	assert.Less(t,
		strings.Index(out, "---region:zeta---"),
		strings.Index(out, "---region:alpha---"),
	)
}

func TestSerialize_ExtraKeysCarried(t *testing.T) {
	block := &types.Block{
		ID:    "b1",
		Type:  "core:rich_text",
		Extra: map[string]interface{}{"revision": 4},
	}

	out, err := Serialize([]*types.Block{block})
	require.NoError(t, err)
	assert.Contains(t, out, "revision: 4")
}

func roundTrip(t *testing.T, blocks []*types.Block) []*types.Block {
	t.Helper()
	text, err := Serialize(blocks)
	require.NoError(t, err)
	reparsed, err := builder.Build(scanner.Scan(text))
	require.NoError(t, err, "re-parse of:\n%s", text)
	return reparsed
}

func TestRoundTrip_LeafSemanticEquality(t *testing.T) {
	original := []*types.Block{
		{
			ID:   "b1",
			Type: "core:rich_text",
			Content: map[string]interface{}{
				"text": "Hello <strong>world</strong>",
			},
			Config: map[string]interface{}{
				"align":   "center",
				"columns": 2,
				"wide":    true,
			},
		},
	}

	reparsed := roundTrip(t, original)
	require.Len(t, reparsed, 1)
	assert.Equal(t, original[0].ID, reparsed[0].ID)
	assert.Equal(t, original[0].Type, reparsed[0].Type)
	assert.Equal(t, original[0].Content, reparsed[0].Content)
	assert.Equal(t, original[0].Config, reparsed[0].Config)
	assert.Empty(t, reparsed[0].Regions)
}

func TestRoundTrip_NestedContainers(t *testing.T) {
	original := []*types.Block{
		{
			ID:     "outer",
			Type:   "core:section",
			Config: map[string]interface{}{"layout": "stack"},
			Regions: []types.Region{
				{Name: "body", Blocks: []*types.Block{
					{
						ID:   "inner",
						Type: "core:two_column",
						Regions: []types.Region{
							{Name: "column_1", Blocks: []*types.Block{
								{ID: "t1", Type: "core:rich_text", Content: map[string]interface{}{"text": "left"}},
							}},
							{Name: "column_2", Blocks: []*types.Block{
								{ID: "t2", Type: "core:rich_text", Content: map[string]interface{}{"text": "right"}},
							}},
						},
					},
				}},
			},
		},
		{ID: "tail", Type: "core:rich_text", Content: map[string]interface{}{"text": "after"}},
	}

	reparsed := roundTrip(t, original)
	require.Len(t, reparsed, 2)

	outer := reparsed[0]
	assert.Equal(t, "outer", outer.ID)
	assert.Equal(t, []string{"body"}, outer.RegionNames())

	body, ok := outer.Region("body")
	require.True(t, ok)
	require.Len(t, body.Blocks, 1)

	inner := body.Blocks[0]
	assert.Equal(t, "inner", inner.ID)
	assert.Equal(t, []string{"column_1", "column_2"}, inner.RegionNames())

	col1, _ := inner.Region("column_1")
	require.Len(t, col1.Blocks, 1)
	assert.Equal(t, "left", col1.Blocks[0].Content["text"])

	assert.Equal(t, "tail", reparsed[1].ID)
	assert.Equal(t, "after", reparsed[1].Content["text"])
}

func TestRoundTrip_StringsNeedingQuotes(t *testing.T) {
	original := []*types.Block{
		{
			ID:   "b1",
			Type: "core:rich_text",
			Content: map[string]interface{}{
				"text":    "line one\nline two",
				"colon":   "key: value lookalike",
				"number":  "0123",
				"boolish": "true",
			},
		},
	}

	reparsed := roundTrip(t, original)
	require.Len(t, reparsed, 1)
	assert.Equal(t, original[0].Content, reparsed[0].Content)
}

func TestRoundTrip_EmptyRegionPreserved(t *testing.T) {
	original := []*types.Block{
		{
			ID:   "c1",
			Type: "core:section",
			Regions: []types.Region{
				{Name: "side"},
			},
		},
	}

	reparsed := roundTrip(t, original)
	require.Len(t, reparsed, 1)

	region, ok := reparsed[0].Region("side")
	require.True(t, ok)
	assert.Empty(t, region.Blocks)
}
