// Package gender predicts the gender associated with a first name from
// precompiled lists of female, male and unisex names.
//
// A Lookup is built once by Load and never modified afterwards, so a single
// value may be shared by any number of goroutines.
package gender

import (
	"bufio"
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

//go:embed data/*.txt
var bundled embed.FS

// Score is the numeric gender prediction: 0.0 female, 0.5 unisex or unknown, 1.0 male.
type Score float64

// Possible scores.
const (
	ScoreFemale  Score = 0.0
	ScoreUnisex  Score = 0.5
	ScoreMale    Score = 1.0
	DefaultScore       = ScoreUnisex
)

// Category distinguishes a known unisex name from a name that is not listed at all.
type Category int

// Categories. Unknown is the zero value.
const (
	Unknown Category = iota
	Female
	Male
	Unisex
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Female:
		return "female"
	case Male:
		return "male"
	case Unisex:
		return "unisex"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized text is an error.
func (c *Category) UnmarshalText(text []byte) error {
	switch string(text) {
	case "female":
		*c = Female
	case "male":
		*c = Male
	case "unisex":
		*c = Unisex
	case "unknown":
		*c = Unknown
	default:
		return fmt.Errorf("unknown category %q", text)
	}
	return nil
}

// Score maps the category onto the numeric scale. Unknown maps to DefaultScore.
func (c Category) Score() Score {
	switch c {
	case Female:
		return ScoreFemale
	case Male:
		return ScoreMale
	default:
		return DefaultScore
	}
}

// Lookup maps exact first names to categories.
type Lookup struct {
	names map[string]Category
}

// source is one name list and the category its names receive.
type source struct {
	path     string
	category Category
}

type loader struct {
	fsys       fs.FS
	femaleFile string
	maleFile   string
	unisexFile string
	enc        encoding.Encoding
}

// sources returns the lists in load order. Later lists overwrite earlier ones
// on collision, so unisex wins over male and male wins over female.
func (l *loader) sources() []source {
	return []source{
		{path: l.femaleFile, category: Female},
		{path: l.maleFile, category: Male},
		{path: l.unisexFile, category: Unisex},
	}
}

// Load reads the three name lists and builds a Lookup. It fails with
// ErrResourceNotFound or ErrEncoding; no partially built Lookup is returned.
func Load(ctx context.Context, opts ...Option) (*Lookup, error) {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		return nil, fmt.Errorf("open bundled name lists: %w", err)
	}
	l := &loader{
		fsys:       sub,
		femaleFile: DefaultFemaleFile,
		maleFile:   DefaultMaleFile,
		unisexFile: DefaultUnisexFile,
		enc:        unicode.UTF8,
	}
	for _, opt := range opts {
		opt(l)
	}

	names := make(map[string]Category)
	for _, src := range l.sources() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load name lists: %w", err)
		}
		list, err := l.readList(src.path)
		if err != nil {
			return nil, err
		}
		for _, name := range list {
			names[name] = src.category
		}
	}
	return &Lookup{names: names}, nil
}

// readList returns the names in path, one per line, with surrounding
// whitespace removed. Blank lines are skipped.
func (l *loader) readList(path string) ([]string, error) {
	raw, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, path, err)
	}
	text, err := Decode(raw, l.enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var names []string
	sc := bufio.NewScanner(bytes.NewReader(text))
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, path, err)
	}
	return names, nil
}

// Key returns the lookup key for name: its first whitespace-separated token,
// or "" when name holds no tokens.
func Key(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Classify returns the category of the first token of name, or Unknown.
// Matching is exact: no case folding or accent normalization.
func (l *Lookup) Classify(name string) Category {
	return l.names[Key(name)]
}

// Predict returns the gender score for the first token of name.
// Names not in any list score DefaultScore.
func (l *Lookup) Predict(name string) Score {
	return l.Classify(name).Score()
}

// Len returns the number of distinct names known.
func (l *Lookup) Len() int {
	return len(l.names)
}

// Counts returns the number of names per category after collision resolution.
func (l *Lookup) Counts() map[Category]int {
	counts := make(map[Category]int, 3)
	for _, c := range l.names {
		counts[c]++
	}
	return counts
}
