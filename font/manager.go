// Package font manages the application's bundled font resources: it
// scans a directory for font files, groups them into families by
// name/weight extracted from the filenames, and lazily rebuilds the GPU
// font atlas when the selection changes.
package font

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
)

// faceFileRe extracts family name and optional weight token from a font
// filename, e.g. "Inter-Bold.ttf", "Roboto_medium.otf", "Pricedown.ttf".
// A missing weight token means Regular.
var faceFileRe = regexp.MustCompile(`(?i)^([0-9A-Za-z][0-9A-Za-z ]*?)(?:[-_ ]([A-Za-z]+|[1-9]00))?\.(ttf|otf)$`)

// Face is one font file: a weight within a family.
type Face struct {
	Family string
	Weight Weight
	Path   string
}

// Family groups the faces sharing one family name, sorted by weight.
type Family struct {
	Name  string
	Faces []Face
}

// AtlasUploader pushes a finished alpha atlas to the GPU and returns the
// texture handle. The OpenGL implementation lives in backend/opengl;
// tests inject fakes.
type AtlasUploader interface {
	UploadAlpha(img *image.Alpha) (uint32, error)
}

// Manager owns the font list and the lazily rebuilt atlas.
//
// The rebuild contract is dirty-flag based: selection changes and
// reloads mark the manager dirty, and the next RebuildFontIfNeeded call
// does the actual work. Callers MUST propagate a rebuild to the renderer
// (rebinding the returned texture) before drawing text: rendering with
// a stale atlas texture crashes the app. This is a hard precondition,
// not a suggestion.
type Manager struct {
	mu sync.Mutex

	dir    string
	sizePx float64

	families  []Family
	selFamily int // -1 when nothing is selected
	selFace   int

	dirty   bool
	atlas   *Atlas
	texture uint32

	buildAtlas func(path string, sizePx float64) (*Atlas, error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSizePx sets the atlas rasterization size in pixels. Default 18.
func WithSizePx(px float64) ManagerOption {
	return func(m *Manager) { m.sizePx = px }
}

// WithAtlasBuilder replaces the atlas builder, for tests.
func WithAtlasBuilder(f func(path string, sizePx float64) (*Atlas, error)) ManagerOption {
	return func(m *Manager) { m.buildAtlas = f }
}

// NewManager creates a manager over the given font directory. Call
// ReloadListFromResources before first use.
func NewManager(dir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		dir:        dir,
		sizePx:     18,
		selFamily:  -1,
		buildAtlas: BuildAtlas,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ReloadListFromResources rescans the font directory and repopulates the
// family list. Filenames the regex cannot place are skipped with a
// warning. A selection that no longer exists after the rescan is clamped
// to the nearest valid index (or cleared if the list emptied), also with
// a warning; an out-of-range selection is a data anomaly, never a hard
// error. The manager is marked dirty: the files behind the surviving
// selection may have changed on disk.
func (m *Manager) ReloadListFromResources() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("scanning font directory %s: %w", m.dir, err)
	}

	byFamily := make(map[string][]Face)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := faceFileRe.FindStringSubmatch(e.Name())
		if match == nil {
			fontLogger.Warn("skipping font file with unrecognized name", "file", e.Name())
			continue
		}
		name, token := match[1], match[2]
		weight := WeightRegular
		if token != "" {
			w, ok := parseWeight(token)
			if !ok {
				fontLogger.Warn("skipping font file with unrecognized weight",
					"file", e.Name(), "weight", token)
				continue
			}
			weight = w
		}
		byFamily[name] = append(byFamily[name], Face{
			Family: name,
			Weight: weight,
			Path:   filepath.Join(m.dir, e.Name()),
		})
	}

	families := make([]Family, 0, len(byFamily))
	for name, faces := range byFamily {
		sort.Slice(faces, func(i, j int) bool { return faces[i].Weight < faces[j].Weight })
		families = append(families, Family{Name: name, Faces: faces})
	}
	sort.Slice(families, func(i, j int) bool { return families[i].Name < families[j].Name })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.families = families
	m.clampSelectionLocked()
	m.dirty = true
	fontLogger.Info("reloaded font list", "dir", m.dir, "families", len(families))
	return nil
}

// clampSelectionLocked repairs out-of-range selection indices in place.
func (m *Manager) clampSelectionLocked() {
	if len(m.families) == 0 {
		if m.selFamily >= 0 {
			fontLogger.Warn("font list emptied, clearing selection")
		}
		m.selFamily, m.selFace = -1, 0
		return
	}
	if m.selFamily >= len(m.families) {
		fontLogger.Warn("selected family out of range after reload, clamping",
			"selected", m.selFamily, "families", len(m.families))
		m.selFamily = len(m.families) - 1
		m.selFace = 0
	}
	if m.selFamily >= 0 && m.selFace >= len(m.families[m.selFamily].Faces) {
		fontLogger.Warn("selected face out of range after reload, clamping",
			"selected", m.selFace, "faces", len(m.families[m.selFamily].Faces))
		m.selFace = len(m.families[m.selFamily].Faces) - 1
	}
}

// Families returns a copy of the family list.
func (m *Manager) Families() []Family {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Family, len(m.families))
	copy(out, m.families)
	return out
}

// Selection returns the selected family and face indices. Family is -1
// when nothing is selected yet.
func (m *Manager) Selection() (family, face int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selFamily, m.selFace
}

// Select picks a family/face pair and marks the atlas dirty.
func (m *Manager) Select(family, face int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if family < 0 || family >= len(m.families) {
		return fmt.Errorf("font family index %d out of range (%d families)", family, len(m.families))
	}
	if face < 0 || face >= len(m.families[family].Faces) {
		return fmt.Errorf("font face index %d out of range in family %s", face, m.families[family].Name)
	}
	m.selFamily, m.selFace = family, face
	m.dirty = true
	return nil
}

// MarkDirty forces a rebuild on the next RebuildFontIfNeeded call.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty = true
}

// RebuildFontIfNeeded rebuilds the atlas when the dirty flag is set or
// no font has been selected yet, uploading it through the given
// uploader. It reports whether a rebuild happened; on true the caller
// must rebind TextureID() in the renderer before the next text draw.
func (m *Manager) RebuildFontIfNeeded(uploader AtlasUploader) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty && m.selFamily >= 0 && m.atlas != nil {
		return false, nil
	}
	if len(m.families) == 0 {
		return false, fmt.Errorf("no fonts available in %s", m.dir)
	}
	if m.selFamily < 0 {
		m.selFamily, m.selFace = 0, 0
	}

	face := m.families[m.selFamily].Faces[m.selFace]
	atlas, err := m.buildAtlas(face.Path, m.sizePx)
	if err != nil {
		return false, fmt.Errorf("building atlas for %s %s: %w", face.Family, face.Weight, err)
	}
	tex, err := uploader.UploadAlpha(atlas.Image)
	if err != nil {
		return false, fmt.Errorf("uploading atlas for %s %s: %w", face.Family, face.Weight, err)
	}

	m.atlas = atlas
	m.texture = tex
	m.dirty = false
	fontLogger.Info("rebuilt font atlas",
		"family", face.Family, "weight", face.Weight.String(), "texture", tex)
	return true, nil
}

// Atlas returns the last built atlas, or nil before the first rebuild.
func (m *Manager) Atlas() *Atlas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.atlas
}

// TextureID returns the GPU texture of the last built atlas.
func (m *Manager) TextureID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}
