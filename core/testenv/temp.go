package testenv

import (
	"os"
	"path/filepath"
	"testing"
)

// TempName returns a filename in a temporary directory.
// The directory and contained files are deleted during cleanup.
func TempName(t testing.TB, name ...string) (filename string) {
	filename = "temp"
	if len(name) > 0 {
		filename = name[0]
	}
	return filepath.Join(t.TempDir(), filename)
}

// WriteTemp writes content to a temporary file and returns its filename.
func WriteTemp(t testing.TB, name, content string) (filename string) {
	filename = TempName(t, name)
	if e := os.WriteFile(filename, []byte(content), 0o644); e != nil {
		panic(e)
	}
	return filename
}
