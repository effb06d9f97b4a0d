package font_test

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/shell/font"
)

// writeFontFiles drops empty placeholder files; the scan only looks at
// names, the contents matter only to the atlas builder.
func writeFontFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}
}

// fakeUploader records uploads and hands out sequential texture IDs.
type fakeUploader struct {
	uploads int
}

func (u *fakeUploader) UploadAlpha(img *image.Alpha) (uint32, error) {
	u.uploads++
	return uint32(u.uploads), nil
}

// stubAtlas is a builder that skips rasterization entirely.
func stubAtlas(path string, sizePx float64) (*font.Atlas, error) {
	return &font.Atlas{
		Image:  image.NewAlpha(image.Rect(0, 0, 4, 4)),
		Glyphs: map[rune]font.Glyph{},
	}, nil
}

func TestReloadGroupsFamiliesByNameAndWeight(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir,
		"Inter-Bold.ttf",
		"Inter-Regular.ttf",
		"Roboto_Medium.otf",
		"Pricedown.ttf",       // no weight token: Regular
		"Inter-Wedge.ttf",     // unknown weight: skipped
		"~broken~.ttf",        // unparseable name: skipped
		"notes.txt",           // not a font file: skipped
	)

	m := font.NewManager(dir)
	require.NoError(t, m.ReloadListFromResources())

	families := m.Families()
	require.Len(t, families, 3)

	assert.Equal(t, "Inter", families[0].Name)
	require.Len(t, families[0].Faces, 2)
	assert.Equal(t, font.WeightRegular, families[0].Faces[0].Weight)
	assert.Equal(t, font.WeightBold, families[0].Faces[1].Weight)

	assert.Equal(t, "Pricedown", families[1].Name)
	require.Len(t, families[1].Faces, 1)
	assert.Equal(t, font.WeightRegular, families[1].Faces[0].Weight)

	assert.Equal(t, "Roboto", families[2].Name)
	require.Len(t, families[2].Faces, 1)
	assert.Equal(t, font.WeightMedium, families[2].Faces[0].Weight)
}

func TestReloadClampsStaleSelection(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir, "Alpha-Regular.ttf", "Beta-Regular.ttf", "Beta-Bold.ttf")

	m := font.NewManager(dir)
	require.NoError(t, m.ReloadListFromResources())
	require.NoError(t, m.Select(1, 1)) // Beta Bold

	// Beta disappears from disk; the selection index now points past
	// the end of the list.
	require.NoError(t, os.Remove(filepath.Join(dir, "Beta-Regular.ttf")))
	require.NoError(t, os.Remove(filepath.Join(dir, "Beta-Bold.ttf")))
	require.NoError(t, m.ReloadListFromResources())

	fam, face := m.Selection()
	assert.Equal(t, 0, fam)
	assert.Equal(t, 0, face)
}

func TestReloadEmptyDirClearsSelection(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir, "Alpha-Regular.ttf")

	m := font.NewManager(dir)
	require.NoError(t, m.ReloadListFromResources())
	require.NoError(t, m.Select(0, 0))

	require.NoError(t, os.Remove(filepath.Join(dir, "Alpha-Regular.ttf")))
	require.NoError(t, m.ReloadListFromResources())

	fam, _ := m.Selection()
	assert.Equal(t, -1, fam)
	assert.Empty(t, m.Families())
}

func TestReloadMissingDirFails(t *testing.T) {
	m := font.NewManager(filepath.Join(t.TempDir(), "nope"))
	err := m.ReloadListFromResources()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning font directory")
}

func TestRebuildFontIfNeeded(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir, "Alpha-Regular.ttf", "Beta-Regular.ttf")

	m := font.NewManager(dir, font.WithAtlasBuilder(stubAtlas))
	require.NoError(t, m.ReloadListFromResources())
	up := &fakeUploader{}

	// Nothing selected yet: rebuild happens and selects the first face.
	rebuilt, err := m.RebuildFontIfNeeded(up)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, uint32(1), m.TextureID())
	fam, face := m.Selection()
	assert.Equal(t, 0, fam)
	assert.Equal(t, 0, face)
	require.NotNil(t, m.Atlas())

	// Clean: no rebuild.
	rebuilt, err = m.RebuildFontIfNeeded(up)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Equal(t, 1, up.uploads)

	// Selection change dirties the atlas.
	require.NoError(t, m.Select(1, 0))
	rebuilt, err = m.RebuildFontIfNeeded(up)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, uint32(2), m.TextureID())

	// Explicit dirty mark.
	m.MarkDirty()
	rebuilt, err = m.RebuildFontIfNeeded(up)
	require.NoError(t, err)
	assert.True(t, rebuilt)
}

func TestRebuildWithNoFontsFails(t *testing.T) {
	m := font.NewManager(t.TempDir(), font.WithAtlasBuilder(stubAtlas))
	require.NoError(t, m.ReloadListFromResources())

	_, err := m.RebuildFontIfNeeded(&fakeUploader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fonts available")
}

func TestRebuildPropagatesBuilderError(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir, "Alpha-Regular.ttf")

	boom := errors.New("corrupt font table")
	m := font.NewManager(dir, font.WithAtlasBuilder(
		func(path string, sizePx float64) (*font.Atlas, error) { return nil, boom },
	))
	require.NoError(t, m.ReloadListFromResources())

	_, err := m.RebuildFontIfNeeded(&fakeUploader{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSelectValidatesIndices(t *testing.T) {
	dir := t.TempDir()
	writeFontFiles(t, dir, "Alpha-Regular.ttf")

	m := font.NewManager(dir)
	require.NoError(t, m.ReloadListFromResources())

	assert.Error(t, m.Select(5, 0))
	assert.Error(t, m.Select(0, 5))
	assert.Error(t, m.Select(-1, 0))
	assert.NoError(t, m.Select(0, 0))
}
