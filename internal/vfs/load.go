package vfs

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// extLanguages maps file extensions to language tags.
var extLanguages = map[string]string{
	".tsx":      "tsx",
	".jsx":      "jsx",
	".ts":       "ts",
	".js":       "js",
	".mjs":      "js",
	".css":      "css",
	".html":     "html",
	".htm":      "html",
	".md":       "markdown",
	".markdown": "markdown",
	".json":     "json",
	".svg":      "svg",
}

// DetectLanguage infers a language tag from a file name. Unknown extensions
// return "".
func DetectLanguage(name string) string {
	return extLanguages[strings.ToLower(path.Ext(name))]
}

// WithLanguage returns f with Language filled in from its extension when the
// tag is empty.
func WithLanguage(f File) File {
	if f.Language == "" {
		f.Language = DetectLanguage(f.Name)
	}
	return f
}

// skipDirs are never descended into when loading a project directory.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// LoadDir reads every regular file under fsys in lexical path order.
// Files with unrecognised extensions are still returned; classification
// decides what to do with them.
func LoadDir(fsys fs.FS) ([]File, error) {
	var files []File

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, WithLanguage(File{Name: p, Content: string(data)}))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	return files, nil
}
