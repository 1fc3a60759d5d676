package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/smellscan/internal/constants"
)

// FileHelper discovers Java source files under one or more roots
type FileHelper struct {
	respectGitignore bool
}

// FileHelperOption configures a FileHelper
type FileHelperOption func(*FileHelper)

// WithGitignore makes the helper skip paths matched by a .gitignore at each root
func WithGitignore(respect bool) FileHelperOption {
	return func(h *FileHelper) {
		h.respectGitignore = respect
	}
}

// NewFileHelper creates a new FileHelper
func NewFileHelper(opts ...FileHelperOption) *FileHelper {
	h := &FileHelper{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CollectSourceFiles walks each path and returns the Java files found, sorted.
// An entry whose name contains an exclude pattern (case-insensitive) is skipped
// together with everything below it. Roots that cannot be read contribute nothing.
func (h *FileHelper) CollectSourceFiles(paths []string, includePatterns, excludePatterns []string) ([]string, error) {
	if len(includePatterns) == 0 {
		includePatterns = []string{constants.DefaultIncludePattern}
	}
	excludes := make([]string, 0, len(excludePatterns))
	for _, p := range excludePatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			excludes = append(excludes, p)
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			if h.IsSourceFile(root) && !isExcluded(filepath.Base(root), excludes) {
				add(root)
			}
			continue
		}

		gitignore := h.loadGitignore(root)
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable entries are skipped, not fatal
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if isExcluded(d.Name(), excludes) || (gitignore != nil && gitignore.MatchesPath(rel)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if h.IsSourceFile(path) && matchesInclude(rel, includePatterns) {
				add(path)
			}
			return nil
		})
	}

	sort.Strings(files)
	return files, nil
}

// IsSourceFile reports whether path names a Java source file
func (h *FileHelper) IsSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.SourceExtension)
}

func (h *FileHelper) loadGitignore(root string) *ignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func isExcluded(name string, excludes []string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range excludes {
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, lower); matched {
				return true
			}
			continue
		}
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// matchesInclude matches a slash separated relative path against glob
// patterns. A "**" segment matches any number of directories.
func matchesInclude(rel string, patterns []string) bool {
	segments := strings.Split(rel, "/")
	for _, pattern := range patterns {
		pattern = strings.Trim(filepath.ToSlash(strings.TrimSpace(pattern)), "/")
		if pattern != "" && matchSegments(strings.Split(pattern, "/"), segments) {
			return true
		}
	}
	return false
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if matched, _ := filepath.Match(pattern[0], path[0]); !matched {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}
