package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparktype/blockdown/internal/config"
	"github.com/sparktype/blockdown/internal/registry"
	"github.com/sparktype/blockdown/internal/types"
	"github.com/sparktype/blockdown/pkg/blockdown"
)

const integrationDoc = "```block:container\n" +
	"type: core:two_column\n" +
	"config:\n" +
	"  layout: equal\n" +
	"```\n" +
	"\n" +
	"---region:column_1---\n" +
	"\n" +
	"```block:content\n" +
	"type: core:rich_text\n" +
	"content:\n" +
	"  text: \"<p>Left column</p>\"\n" +
	"```\n" +
	"\n" +
	"---region:column_2---\n" +
	"\n" +
	"```block:content\n" +
	"type: core:image\n" +
	"content:\n" +
	"  src: images/hero.jpg\n" +
	"```\n" +
	"\n" +
	"```block:end\n" +
	"```\n"

func TestIntegration_ParseFormatReparse(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "page.md")
	require.NoError(t, os.WriteFile(path, []byte(integrationDoc), 0o644))

	// First parse
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	blocks, err := blockdown.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	container := blocks[0]
	assert.True(t, container.IsContainer())
	assert.Equal(t, []string{"column_1", "column_2"}, container.RegionNames())
	assert.NotEmpty(t, container.ID)

	// Every block is structurally valid (ids were derived during parse)
	result := blockdown.Validate(blocks)
	assert.True(t, result.IsValid, "findings: %v", result.Errors)

	// Canonical rewrite
	formatted, err := blockdown.Serialize(blocks)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(formatted), 0o644))

	// Re-parse of the canonical form preserves shape and identity
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	reparsed, err := blockdown.Parse(string(data))
	require.NoError(t, err)
	require.Len(t, reparsed, 1)

	assert.Equal(t, container.ID, reparsed[0].ID)
	assert.Equal(t, container.RegionNames(), reparsed[0].RegionNames())

	left, ok := reparsed[0].Region("column_1")
	require.True(t, ok)
	require.Len(t, left.Blocks, 1)
	assert.Equal(t, "core:rich_text", left.Blocks[0].Type)
	assert.Equal(t, "<p>Left column</p>", left.Blocks[0].Content["text"])

	// A second serialize of the re-parsed tree is byte-identical
	again, err := blockdown.Serialize(reparsed)
	require.NoError(t, err)
	assert.Equal(t, formatted, again)
}

func TestIntegration_ConfigAndRegistry(t *testing.T) {
	tempDir := t.TempDir()
	contentDir := filepath.Join(tempDir, "content")
	require.NoError(t, os.Mkdir(contentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "page.md"), []byte(integrationDoc), 0o644))

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(oldDir)
	require.NoError(t, os.Chdir(tempDir))

	viper.Reset()
	viper.Set("content.scan_paths", []string{"./content"})
	viper.Set("server.port", 4321)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"./content"}, cfg.Content.ScanPaths)

	// Load every configured document into a registry, the way serve does
	reg := registry.NewDocumentRegistry()
	for _, root := range cfg.Content.ScanPaths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || filepath.Ext(path) != ".md" {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			blocks, err := blockdown.Parse(string(data))
			if err != nil {
				return err
			}
			reg.Register(&types.Document{Path: path, Blocks: blocks})
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, reg.Count())
	doc, ok := reg.Get(filepath.Join("content", "page.md"))
	require.True(t, ok)
	assert.Equal(t, 3, doc.Count())
}
