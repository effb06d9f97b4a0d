// Package resource resolves the on-disk location of bundled resources
// (fonts and friends), anchored at the executable's own directory so the
// app works regardless of the working directory it was launched from.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRelativeDir is the resource root relative to the executable.
const DefaultRelativeDir = "resources"

// Resolve joins an executable path's directory with the configured
// relative resource path. Split out from BaseDir so it can be exercised
// without a real executable.
func Resolve(exePath, relative string) string {
	return filepath.Join(filepath.Dir(exePath), relative)
}

// BaseDir returns the resolved base path for bundled resources: the
// executable's directory plus relative (DefaultRelativeDir when empty).
func BaseDir(relative string) (string, error) {
	if relative == "" {
		relative = DefaultRelativeDir
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return Resolve(exe, relative), nil
}

// FontsDir returns the fonts directory under the given resource base.
func FontsDir(base string) string {
	return filepath.Join(base, "fonts")
}
