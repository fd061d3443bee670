package keywords

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileTables mirrors the TOML layout. Arrays of tables keep the declaration
// order, which decides role tie-breaks.
type fileTables struct {
	Categories []fileSet `toml:"categories"`
	Roles      []fileSet `toml:"roles"`
}

type fileSet struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

func LoadFile(path string) (*Tables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("keywords: empty file path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keywords: read %s: %w", path, err)
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("keywords: %s: %w", path, err)
	}
	return t, nil
}

func Parse(data []byte) (*Tables, error) {
	var ft fileTables
	if err := toml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return New(toSets(ft.Categories), toSets(ft.Roles))
}

func Encode(t *Tables) ([]byte, error) {
	ft := fileTables{
		Categories: fromSets(t.Categories()),
		Roles:      fromSets(t.Roles()),
	}
	return toml.Marshal(ft)
}

func toSets(in []fileSet) []KeywordSet {
	out := make([]KeywordSet, 0, len(in))
	for _, s := range in {
		out = append(out, KeywordSet{Name: s.Name, Keywords: s.Keywords})
	}
	return out
}

func fromSets(in []KeywordSet) []fileSet {
	out := make([]fileSet, 0, len(in))
	for _, s := range in {
		out = append(out, fileSet{Name: s.Name, Keywords: s.Keywords})
	}
	return out
}
