package font

import (
	"fmt"
	"image"
	"os"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Atlas glyph range: printable ASCII. The skeleton renderer only needs
// Latin UI text; extending the range is a matter of growing the grid.
const (
	firstRune = ' '
	lastRune  = '~'
	atlasCols = 16
	cellPad   = 1
)

// Glyph is one character's slot in the atlas: texture coordinates plus
// quad geometry relative to the baseline pen position (Y grows down).
type Glyph struct {
	Rune rune

	// Texture coordinates, normalized.
	U0, V0, U1, V1 float32

	// Quad offsets from the pen, pixels.
	X0, Y0, X1, Y1 float32

	// Advance is the pen movement after this glyph, pixels.
	Advance float32
}

// Atlas is a rasterized font: an alpha mask image plus per-glyph
// placement data. The image still has to be uploaded to the GPU; the
// Manager does that through an AtlasUploader.
type Atlas struct {
	Image      *image.Alpha
	Glyphs     map[rune]Glyph
	LineHeight float32
	Ascent     float32
}

// HasGlyph reports whether the atlas covers r.
func (a *Atlas) HasGlyph(r rune) bool {
	_, ok := a.Glyphs[r]
	return ok
}

// BuildAtlas reads a TTF/OTF file and rasterizes printable ASCII into an
// alpha atlas at the given pixel size.
func BuildAtlas(path string, sizePx float64) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font file %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face for %s: %w", path, err)
	}
	defer func() { _ = face.Close() }()

	metrics := face.Metrics()
	lineHeight := fixedToPx(metrics.Height)
	ascent := fixedToPx(metrics.Ascent)

	// Size cells to the widest glyph box in the set.
	var cellW, cellH int
	for r := rune(firstRune); r <= lastRune; r++ {
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		if w := (bounds.Max.X - bounds.Min.X).Ceil(); w > cellW {
			cellW = w
		}
		if h := (bounds.Max.Y - bounds.Min.Y).Ceil(); h > cellH {
			cellH = h
		}
	}
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("font %s has no usable glyphs in the ASCII range", path)
	}
	cellW += 2 * cellPad
	cellH += 2 * cellPad

	glyphCount := int(lastRune-firstRune) + 1
	rows := (glyphCount + atlasCols - 1) / atlasCols
	atlasW := atlasCols * cellW
	atlasH := rows * cellH

	img := image.NewAlpha(image.Rect(0, 0, atlasW, atlasH))
	drawer := &xfont.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}

	glyphs := make(map[rune]Glyph, glyphCount)
	for i := 0; i < glyphCount; i++ {
		r := rune(firstRune) + rune(i)
		bounds, advance, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}

		cellX := (i % atlasCols) * cellW
		cellY := (i / atlasCols) * cellH

		// Place the glyph box's min corner at the padded cell origin.
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(cellX+cellPad) - bounds.Min.X,
			Y: fixed.I(cellY+cellPad) - bounds.Min.Y,
		}
		drawer.DrawString(string(r))

		w := (bounds.Max.X - bounds.Min.X).Ceil()
		h := (bounds.Max.Y - bounds.Min.Y).Ceil()
		px0 := cellX + cellPad
		py0 := cellY + cellPad

		glyphs[r] = Glyph{
			Rune:    r,
			U0:      float32(px0) / float32(atlasW),
			V0:      float32(py0) / float32(atlasH),
			U1:      float32(px0+w) / float32(atlasW),
			V1:      float32(py0+h) / float32(atlasH),
			X0:      fixedToPx(bounds.Min.X),
			Y0:      fixedToPx(bounds.Min.Y),
			X1:      fixedToPx(bounds.Max.X),
			Y1:      fixedToPx(bounds.Max.Y),
			Advance: fixedToPx(advance),
		}
	}

	return &Atlas{
		Image:      img,
		Glyphs:     glyphs,
		LineHeight: lineHeight,
		Ascent:     ascent,
	}, nil
}

// fixedToPx converts a 26.6 fixed-point value to float pixels.
func fixedToPx(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
