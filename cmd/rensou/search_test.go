package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/rensou/internal/testutil"
)

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSearchCommand(t *testing.T) {
	server := testutil.StartSourceServer(t, map[string]testutil.Fixture{
		"音楽": {Extract: "音楽はメロディーとリズムの芸術"},
	})

	t.Run("prints concepts and saves the outputs", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithSourceServer(server), testutil.WithExportFormat("yaml"))
		svgPath := filepath.Join(tmpDir, "map.svg")
		pngPath := filepath.Join(tmpDir, "map.png")

		stdout, err := executeCommand(t, "",
			"--config", configPath,
			"search", "音楽",
			"--sources", "wikipedia",
			"--max", "4",
			"--svg", svgPath,
			"--png", pngPath,
			"--export",
		)
		require.NoError(t, err)

		assert.Contains(t, stdout, "「音楽」の概念を検索しました！")
		assert.Contains(t, stdout, "Wikipedia (")
		assert.Contains(t, stdout, "メロディー")
		assert.NotContains(t, stdout, "関連検索 (")
		assert.Contains(t, stdout, "概念マップを保存しました: "+svgPath)
		assert.FileExists(t, svgPath)
		assert.FileExists(t, pngPath)

		exported, err := os.ReadFile(filepath.Join(tmpDir, "outputs", "concept_dictionary.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(exported), "音楽:")
		assert.Contains(t, string(exported), "- メロディー")
	})

	t.Run("format flag overrides the configured export format", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithSourceServer(server))
		outputPath := filepath.Join(tmpDir, "dictionary.md")

		_, err := executeCommand(t, "",
			"--config", configPath,
			"search", "音楽",
			"--export", "--format", "markdown", "--output", outputPath,
		)
		require.NoError(t, err)

		exported, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Contains(t, string(exported), "## 音楽")
	})

	t.Run("output extension picks the export format", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithSourceServer(server))
		outputPath := filepath.Join(tmpDir, "dictionary.yml")

		_, err := executeCommand(t, "",
			"--config", configPath,
			"search", "音楽",
			"--export", "--output", outputPath,
		)
		require.NoError(t, err)

		exported, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Contains(t, string(exported), "音楽:\n")
	})

	t.Run("invalid settings", func(t *testing.T) {
		configPath := testutil.SetupTestConfig(t, t.TempDir(), testutil.WithSourceServer(server))

		for _, args := range [][]string{
			{"--config", configPath, "search", "音楽", "--max", "20"},
			{"--config", configPath, "search", "音楽", "--sources", "google"},
			{"--config", configPath, "search", "音楽", "--format", "csv"},
			{"--config", configPath, "search", "  "},
			{"--config", configPath, "search"},
		} {
			_, err := executeCommand(t, "", args...)
			assert.Error(t, err, strings.Join(args, " "))
		}
	})
}

func TestWalkCommand(t *testing.T) {
	server := testutil.StartSourceServer(t, map[string]testutil.Fixture{
		"音楽":    {Extract: "音楽はメロディーとリズムの芸術"},
		"メロディー": {Extract: "メロディーは旋律のこと"},
	})
	tmpDir := t.TempDir()
	configPath := testutil.SetupTestConfig(t, tmpDir, testutil.WithSourceServer(server), testutil.WithSources("wikipedia"))

	stdout, err := executeCommand(t, "1\n:dict\n:quit\n", "--config", configPath, "walk", "音楽")
	require.NoError(t, err)

	assert.Contains(t, stdout, "「音楽」の概念を検索しました！")
	assert.Contains(t, stdout, "連想> ")
	assert.Contains(t, stdout, "登録済み単語: 2")
}
