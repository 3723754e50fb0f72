package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func replacePathTilde(path string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(path, homeDir) {
		path = strings.Replace(path, homeDir, "~", 1)

		return path, err
	}

	return "", errors.New("replace failed")
}

// displayPath shortens path under $HOME to ~/... and falls back to the
// absolute path.
func displayPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if short, err := replacePathTilde(abs); err == nil {
		return short
	}

	return abs
}
