package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window wraps GLFW window/context creation and the per-frame
// bookkeeping the shell needs. All methods must run on the main OS
// thread (runtime.LockOSThread in main's init).
type Window struct {
	win *glfw.Window
}

// NewWindow initializes GLFW, creates a window with an OpenGL 4.1 core
// context, and initializes GL. Failures here are OS-level (no display,
// no driver); they are wrapped with context and abort startup, not
// retried.
func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	return &Window{win: win}, nil
}

// ShouldClose reports whether the user asked the window to close.
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// PollEvents pumps the windowing system's event queue.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// BeginFrame sets the viewport to the framebuffer size and clears it.
func (w *Window) BeginFrame() {
	fw, fh := w.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// Destroy tears down the window and GLFW.
func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
