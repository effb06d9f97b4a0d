// Package opengl provides the OpenGL 4.1 pieces of the application
// backend: window/context creation and font atlas texture upload.
package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// AtlasTexture uploads alpha font atlases as single-channel (R) GL
// textures. It owns at most one texture at a time; re-uploading frees
// the previous one, so stale handles must not be kept around. Callers
// rebind the returned ID after every rebuild.
type AtlasTexture struct {
	tex uint32
}

// NewAtlasTexture creates an empty uploader. It allocates no GL
// resources until the first upload.
func NewAtlasTexture() *AtlasTexture {
	return &AtlasTexture{}
}

// UploadAlpha uploads img as a linear-filtered R-channel texture and
// returns its ID. Must be called on the thread owning the GL context.
func (t *AtlasTexture) UploadAlpha(img *image.Alpha) (uint32, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("atlas image is empty (%dx%d)", w, h)
	}

	// Repack when the stride carries padding; TexImage2D wants tight rows.
	data := img.Pix
	if img.Stride != w {
		data = make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(data[y*w:(y+1)*w], img.Pix[y*img.Stride:y*img.Stride+w])
		}
	}

	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t.tex = tex
	return tex, nil
}

// ID returns the current texture, 0 before the first upload.
func (t *AtlasTexture) ID() uint32 {
	return t.tex
}

// Delete releases the texture.
func (t *AtlasTexture) Delete() {
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
}
