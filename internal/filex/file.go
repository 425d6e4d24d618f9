// Package filex has small filesystem helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// EnsureDir creates dir (relative paths resolve against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// ExportFilePath maps an object key such as exports/<owner>/2024/03/01/<id>.json
// to <dir>/2024-03-01-<id>.json.
func ExportFilePath(dir, key string) string {
	base := path.Base(key)
	d := path.Dir(key)
	day := path.Base(d)
	month := path.Base(path.Dir(d))
	year := path.Base(path.Dir(path.Dir(d)))

	if len(year) == 4 && len(month) == 2 && len(day) == 2 {
		base = year + "-" + month + "-" + day + "-" + base
	}
	return filepath.Join(dir, base)
}
