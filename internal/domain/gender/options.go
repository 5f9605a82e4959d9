package gender

import (
	"io/fs"
	"os"

	"golang.org/x/text/encoding"
)

// Default name list file names, relative to the source filesystem.
const (
	DefaultFemaleFile = "pigenavne.txt"
	DefaultMaleFile   = "drengenavne.txt"
	DefaultUnisexFile = "unisexnavne.txt"
)

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithFS reads the name lists from fsys instead of the embedded data.
func WithFS(fsys fs.FS) Option {
	return func(l *loader) {
		if fsys != nil {
			l.fsys = fsys
		}
	}
}

// WithDir reads the name lists from a directory on disk.
// An empty dir keeps the embedded data.
func WithDir(dir string) Option {
	return func(l *loader) {
		if dir != "" {
			l.fsys = os.DirFS(dir)
		}
	}
}

// WithFiles overrides the file names of the three lists. Empty values keep the defaults.
func WithFiles(female, male, unisex string) Option {
	return func(l *loader) {
		if female != "" {
			l.femaleFile = female
		}
		if male != "" {
			l.maleFile = male
		}
		if unisex != "" {
			l.unisexFile = unisex
		}
	}
}

// WithEncoding sets the text encoding the lists are stored in (UTF-8 by default).
func WithEncoding(enc encoding.Encoding) Option {
	return func(l *loader) {
		if enc != nil {
			l.enc = enc
		}
	}
}
