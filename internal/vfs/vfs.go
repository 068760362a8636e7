// Package vfs holds the virtual file model fed to the preview compiler and
// the classifier that splits a file set into stylesheets and components.
package vfs

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path"
	"strings"
)

// File is one generated source file. Name is conventionally a path such as
// "src/components/Header.tsx"; Language is a tag like "tsx" or "css".
type File struct {
	Name     string `json:"name" msgpack:"name"`
	Content  string `json:"content" msgpack:"content"`
	Language string `json:"language,omitempty" msgpack:"language,omitempty"`
}

// Classified is the classifier output.
type Classified struct {
	Stylesheets []File
	Components  []File
	// Root is the first component named exactly "App", or nil.
	Root *File
	// Duplicates lists component names that appeared more than once.
	// Only the first file with a given name is kept in Components.
	Duplicates []string
}

// sourceExts are stripped when deriving a component name.
var sourceExts = []string{".tsx", ".jsx", ".ts", ".js", ".html", ".htm"}

// ComponentName derives the component key from a file name:
// "src/Header.tsx" -> "Header".
func ComponentName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	lower := strings.ToLower(base)
	for _, ext := range sourceExts {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// IsStylesheet reports whether f carries CSS.
func IsStylesheet(f File) bool {
	return strings.EqualFold(f.Language, "css") || strings.HasSuffix(strings.ToLower(f.Name), ".css")
}

// IsComponent reports whether f is a component candidate.
func IsComponent(f File) bool {
	switch strings.ToLower(f.Language) {
	case "tsx", "jsx", "html":
		return true
	}
	lower := strings.ToLower(f.Name)
	if strings.HasSuffix(lower, ".tsx") || strings.HasSuffix(lower, ".jsx") {
		return true
	}
	return f.Language == "" && (strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm"))
}

// Classify partitions files in input order. A file that is both a
// stylesheet and a component (e.g. language "css" on a .tsx name) counts
// as a stylesheet.
func Classify(files []File) Classified {
	var c Classified
	seen := make(map[string]bool)
	reported := make(map[string]bool)

	for _, f := range files {
		if IsStylesheet(f) {
			c.Stylesheets = append(c.Stylesheets, f)
			continue
		}
		if !IsComponent(f) {
			continue
		}

		name := ComponentName(f.Name)
		if seen[name] {
			if !reported[name] {
				c.Duplicates = append(c.Duplicates, name)
				reported[name] = true
			}
			continue
		}
		seen[name] = true
		c.Components = append(c.Components, f)
	}

	for i := range c.Components {
		if ComponentName(c.Components[i].Name) == "App" {
			c.Root = &c.Components[i]
			break
		}
	}

	return c
}

// Fingerprint returns a stable digest of the ordered file set, suitable as a
// memoisation key. Every field is length-prefixed so that no two distinct
// sets share an encoding.
func Fingerprint(files []File) string {
	h := sha256.New()
	var n [8]byte
	write := func(s string) {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	for _, f := range files {
		write(f.Name)
		write(strings.ToLower(f.Language))
		write(f.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}
