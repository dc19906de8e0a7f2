package cmd

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/loom-lang/dissect/bytecode"
	"github.com/loom-lang/dissect/renderer"
)

func testApp() *cli.App {
	app := cli.NewApp()
	app.Name = "dissect"
	app.Commands = []*cli.Command{DumpCommand, StrategiesCommand}
	return app
}

// writeFixture lays out an archive with one unit and a profile pointing
// at it, returning the profile path.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()

	u := bytecode.NewUnit("app.core.greet")
	u.EmitConstant("hello")
	u.Emit(bytecode.OpReturn)
	data, err := u.Encode()
	require.NoError(t, err)

	archivePath := filepath.Join(dir, "app.lar")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	member, err := w.Create("app/core/greet.lbc")
	require.NoError(t, err)
	_, err = member.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	profilePath := filepath.Join(dir, "profile.yaml")
	content := fmt.Sprintf("runtime: loom\narchives:\n  - %s\n", archivePath)
	require.NoError(t, os.WriteFile(profilePath, []byte(content), 0o600))
	return profilePath
}

func TestDumpText(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)
	outPath := filepath.Join(dir, "listing.txt")

	err := testApp().Run([]string{
		"dissect", "dump",
		"-profile", profilePath,
		"-output-path", outPath,
		"app.core.greet",
	})
	require.NoError(t, err)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "; === app.core.greet ===")
	for _, line := range strings.Split(strings.TrimSuffix(string(out), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, renderer.CommentPrefix), "line not commented: %q", line)
	}
}

func TestDumpJSON(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)
	outPath := filepath.Join(dir, "listing.json")

	err := testApp().Run([]string{
		"dissect", "dump",
		"-profile", profilePath,
		"-format", "json",
		"-strategy", "listing",
		"-output-path", outPath,
		"app.core.greet",
	})
	require.NoError(t, err)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var report renderer.Report
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, "class app.core.greet", report.Target)
	assert.Equal(t, "listing", report.Strategy)
	assert.Contains(t, report.Listing, "RETURN")
}

func TestDumpUnknownUnit(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)

	err := testApp().Run([]string{
		"dissect", "dump",
		"-profile", profilePath,
		"app.core.ghost",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDumpMissingName(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)

	err := testApp().Run([]string{"dissect", "dump", "-profile", profilePath})
	require.Error(t, err)
}

func TestDumpInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)

	err := testApp().Run([]string{
		"dissect", "dump",
		"-profile", profilePath,
		"-format", "xml",
		"app.core.greet",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestStrategiesCommand(t *testing.T) {
	dir := t.TempDir()
	profilePath := writeFixture(t, dir)

	err := testApp().Run([]string{"dissect", "strategies", "-profile", profilePath})
	require.NoError(t, err)
}
