// Command shell runs the desktop application shell: a GLFW window on
// the main thread, engine and UI worker threads coordinated over a
// broadcast message bus, and a lazily rebuilt font atlas.
package main

import (
	"fmt"
	"os"
	"runtime"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
