package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blockerrors "github.com/sparktype/blockdown/internal/errors"
	"github.com/sparktype/blockdown/internal/identity"
	"github.com/sparktype/blockdown/internal/scanner"
)

func TestBuild_Empty(t *testing.T) {
	blocks, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestBuild_SimpleLeaf(t *testing.T) {
	text := "```block:content\n" +
		"type: core:rich_text\n" +
		"content:\n" +
		"  text: \"Hello world\"\n" +
		"```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	b := blocks[0]
	assert.Equal(t, "core:rich_text", b.Type)
	assert.Equal(t, map[string]interface{}{"text": "Hello world"}, b.Content)
	assert.Empty(t, b.Config)
	assert.Empty(t, b.Regions)
	assert.False(t, b.IsContainer())
}

func TestBuild_ContainerWithOneRegion(t *testing.T) {
	text := "```block:container\n" +
		"type: core:two_column\n" +
		"config:\n" +
		"  layout: equal\n" +
		"```\n" +
		"---region:column_1---\n" +
		"```block:content\n" +
		"type: core:rich_text\n" +
		"content:\n" +
		"  text: \"In the column\"\n" +
		"```\n" +
		"```block:end\n" +
		"```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	container := blocks[0]
	assert.Equal(t, "core:two_column", container.Type)
	assert.Equal(t, "equal", container.Config["layout"])
	assert.True(t, container.IsContainer())

	region, ok := container.Region("column_1")
	require.True(t, ok)
	require.Len(t, region.Blocks, 1)
	assert.Equal(t, "core:rich_text", region.Blocks[0].Type)
	assert.Equal(t, "In the column", region.Blocks[0].Content["text"])
}

func TestBuild_MultipleRegionsOrderPreserved(t *testing.T) {
	text := "```block:container\ntype: core:two_column\n```\n" +
		"---region:column_2---\n" +
		"```block:content\ntype: a:a\n```\n" +
		"---region:column_1---\n" +
		"```block:content\ntype: b:b\n```\n" +
		"```block:end\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	// Region order follows marker appearance, not lexical order
	assert.Equal(t, []string{"column_2", "column_1"}, blocks[0].RegionNames())
}

func TestBuild_ChildrenBeforeFirstMarkerGoToDefaultRegion(t *testing.T) {
	text := "```block:container\ntype: core:section\n```\n" +
		"```block:content\ntype: a:a\n```\n" +
		"```block:end\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	region, ok := blocks[0].Region(DefaultRegion)
	require.True(t, ok)
	assert.Len(t, region.Blocks, 1)
}

func TestBuild_NestedContainers(t *testing.T) {
	text := "```block:container\ntype: core:outer\n```\n" +
		"---region:body---\n" +
		"```block:container\ntype: core:inner\n```\n" +
		"---region:slot---\n" +
		"```block:content\ntype: core:rich_text\n```\n" +
		"```block:end\n```\n" +
		"```block:end\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	outer := blocks[0]
	assert.Equal(t, "core:outer", outer.Type)

	body, ok := outer.Region("body")
	require.True(t, ok)
	require.Len(t, body.Blocks, 1)

	inner := body.Blocks[0]
	assert.Equal(t, "core:inner", inner.Type)

	slot, ok := inner.Region("slot")
	require.True(t, ok)
	require.Len(t, slot.Blocks, 1)
	assert.Equal(t, "core:rich_text", slot.Blocks[0].Type)
}

func TestBuild_EmptyRegionKept(t *testing.T) {
	text := "```block:container\ntype: core:section\n```\n" +
		"---region:side---\n" +
		"```block:end\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	region, ok := blocks[0].Region("side")
	require.True(t, ok)
	assert.Empty(t, region.Blocks)
}

func TestBuild_ExplicitIDWins(t *testing.T) {
	text := "```block:content\nid: my-block\ntype: core:rich_text\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "my-block", blocks[0].ID)
}

func TestBuild_MissingIDGetsFingerprint(t *testing.T) {
	text := "```block:content\ntype: core:rich_text\ncontent:\n  text: hi\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	expected := identity.Fingerprint("core:rich_text",
		map[string]interface{}{"text": "hi"}, map[string]interface{}{})
	assert.Equal(t, expected, blocks[0].ID)
}

func TestBuild_IdenticalTextIdenticalIDs(t *testing.T) {
	text := "```block:content\ntype: core:rich_text\ncontent:\n  text: stable\n```\n"

	first, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	second, err := Build(scanner.Scan(text))
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestBuild_UnmatchedEnd(t *testing.T) {
	text := "```block:end\n```\n"

	_, err := Build(scanner.Scan(text))
	require.Error(t, err)
	assert.True(t, blockerrors.IsKind(err, blockerrors.KindUnmatchedBlockEnd))
}

func TestBuild_UnclosedContainer(t *testing.T) {
	text := "```block:container\ntype: core:section\n```\n" +
		"---region:a---\n" +
		"```block:content\ntype: x:y\n```\n"

	_, err := Build(scanner.Scan(text))
	require.Error(t, err)
	assert.True(t, blockerrors.IsKind(err, blockerrors.KindUnclosedContainer))
}

func TestBuild_MalformedBodyFailsWholeParse(t *testing.T) {
	text := "```block:content\ntype: ok:ok\n```\n" +
		"```block:content\ncontent:\n  text: \"unterminated\n```\n"

	_, err := Build(scanner.Scan(text))
	require.Error(t, err)
	assert.True(t, blockerrors.IsKind(err, blockerrors.KindMalformedBlockBody))
}

func TestBuild_StrayRegionMarkerAtTopLevelIgnored(t *testing.T) {
	text := "---region:orphan---\n" +
		"```block:content\ntype: a:a\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestBuild_DuplicateRegionNameReplacesChildren(t *testing.T) {
	text := "```block:container\ntype: core:section\n```\n" +
		"---region:body---\n" +
		"```block:content\ntype: a:a\n```\n" +
		"---region:other---\n" +
		"```block:content\ntype: b:b\n```\n" +
		"---region:body---\n" +
		"```block:content\ntype: c:c\n```\n" +
		"```block:end\n```\n"

	blocks, err := Build(scanner.Scan(text))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	// Position stays at first appearance, children come from the last marker
	assert.Equal(t, []string{"body", "other"}, blocks[0].RegionNames())
	body, _ := blocks[0].Region("body")
	require.Len(t, body.Blocks, 1)
	assert.Equal(t, "c:c", body.Blocks[0].Type)
}
