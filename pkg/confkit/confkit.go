// Package confkit holds the small pieces shared by every config loader:
// env placeholder expansion, .env bootstrapping and side files referenced
// from the main config.
package confkit

import (
	"path/filepath"
)

// ResolvePath expands env placeholders in file and anchors relative paths at base.
func ResolvePath(base, file string) string {
	file = ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// Section is a config block whose content lives in its own file, e.g.
//
//	Feed:
//	  File: feed.yaml
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads Value from File resolved against base. An empty File leaves
// the section unset. On success File holds the resolved path.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}
