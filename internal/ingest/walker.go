// Package ingest loads directories of JSON entity documents into a statement
// store and keeps the store in sync with the files while watching.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/imlapps/sdapps-sub000/internal/config"
)

// File is a document file picked up by Walk.
type File struct {
	// Path is the absolute file path.
	Path string

	// RelPath is the path relative to the walked directory.
	RelPath string

	// Content is the file content.
	Content []byte

	// SHA256 is the hash of the file content.
	SHA256 string
}

// Default patterns to ignore (in addition to .gitignore).
var defaultIgnorePatterns = []string{
	".git/",
	"node_modules/",
	".sdapps/",
	"vendor/",
	"package.json",
	"package-lock.json",
	"tsconfig.json",
	".DS_Store",
}

// Walk returns every document file under dir that cfg accepts and that is
// not ignored, in lexical order.
func Walk(dir string, cfg config.Config) ([]File, error) {
	matcher, err := loadMatcher(dir)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && shouldSkipDir(d.Name(), path, dir, matcher) {
				return filepath.SkipDir
			}
			return nil
		}

		if !cfg.Accepts(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matcher.Match(splitPath(relPath), false) {
			return nil
		}

		file, err := readFile(dir, relPath)
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})

	return files, err
}

// ReadFile reads a single document file outside a walk. RelPath is the
// file's base name.
func ReadFile(path string) (File, error) {
	return readFile(filepath.Dir(path), filepath.Base(path))
}

func readFile(dir, relPath string) (File, error) {
	path := filepath.Join(dir, relPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	hash := sha256.Sum256(content)
	return File{
		Path:    path,
		RelPath: relPath,
		Content: content,
		SHA256:  hex.EncodeToString(hash[:]),
	}, nil
}

// loadMatcher combines the default patterns with the .gitignore at the root
// of dir, if any.
func loadMatcher(dir string) (gitignore.Matcher, error) {
	patterns := make([]gitignore.Pattern, 0, len(defaultIgnorePatterns))
	for _, p := range defaultIgnorePatterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	loaded, err := loadGitignore(dir)
	if err != nil {
		return nil, err
	}
	return gitignore.NewMatcher(append(patterns, loaded...)), nil
}

// loadGitignore loads .gitignore patterns from the root of dir.
func loadGitignore(dir string) ([]gitignore.Pattern, error) {
	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}

// shouldSkipDir checks if a directory should be skipped.
func shouldSkipDir(name, path, root string, matcher gitignore.Matcher) bool {
	if name == ".git" {
		return true
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return matcher.Match(splitPath(relPath), true)
}

// shouldWatch reports whether a changed path is a document Walk would pick up.
func shouldWatch(path, root string, cfg config.Config, matcher gitignore.Matcher) bool {
	if !cfg.Accepts(path) {
		return false
	}
	relPath, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	parts := splitPath(relPath)
	for i := 1; i < len(parts); i++ {
		if parts[i-1] == ".git" || matcher.Match(parts[:i], true) {
			return false
		}
	}
	return !matcher.Match(parts, false)
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	return strings.Split(path, string(filepath.Separator))
}
