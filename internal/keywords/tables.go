package keywords

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var ErrDuplicateSet = errors.New("duplicate keyword set")

type KeywordSet struct {
	Name     string
	Keywords []string
}

// Tables is the read-only category and role configuration. Build it with
// New; the zero value is a valid empty table.
type Tables struct {
	categories []KeywordSet
	roles      []KeywordSet
	byCategory map[string]int
}

func New(categories, roles []KeywordSet) (*Tables, error) {
	t := &Tables{
		categories: make([]KeywordSet, 0, len(categories)),
		roles:      make([]KeywordSet, 0, len(roles)),
		byCategory: make(map[string]int, len(categories)),
	}

	for _, set := range categories {
		set = cleanSet(set)
		if set.Name == "" {
			return nil, fmt.Errorf("category: empty name")
		}
		if _, ok := t.byCategory[set.Name]; ok {
			return nil, fmt.Errorf("%w: category %q", ErrDuplicateSet, set.Name)
		}
		t.byCategory[set.Name] = len(t.categories)
		t.categories = append(t.categories, set)
	}

	seenRoles := make(map[string]struct{}, len(roles))
	for _, set := range roles {
		set = cleanSet(set)
		if set.Name == "" {
			return nil, fmt.Errorf("role: empty name")
		}
		if _, ok := seenRoles[set.Name]; ok {
			return nil, fmt.Errorf("%w: role %q", ErrDuplicateSet, set.Name)
		}
		seenRoles[set.Name] = struct{}{}
		t.roles = append(t.roles, set)
	}

	return t, nil
}

func MustNew(categories, roles []KeywordSet) *Tables {
	t, err := New(categories, roles)
	if err != nil {
		panic(err)
	}
	return t
}

// Category returns the keywords of a category, matching the name
// case-insensitively. Unknown categories yield an empty list.
func (t *Tables) Category(name string) []string {
	if t == nil {
		return []string{}
	}
	i, ok := t.byCategory[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return []string{}
	}
	return t.categories[i].Keywords
}

func (t *Tables) Categories() []KeywordSet {
	if t == nil {
		return nil
	}
	return t.categories
}

// Roles returns role sets in table order. Callers must not modify them.
func (t *Tables) Roles() []KeywordSet {
	if t == nil {
		return nil
	}
	return t.roles
}

// Fingerprint is a stable digest of the table content, used to scope cached
// results to the tables that produced them.
func (t *Tables) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	if t != nil {
		writeSets(h, "category", t.categories)
		writeSets(h, "role", t.roles)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func writeSets(w io.Writer, kind string, sets []KeywordSet) {
	for _, s := range sets {
		_, _ = w.Write([]byte(kind + "\x00" + s.Name + "\x00"))
		for _, k := range s.Keywords {
			_, _ = w.Write([]byte(k + "\x1f"))
		}
		_, _ = w.Write([]byte{'\x1e'})
	}
}

func cleanSet(set KeywordSet) KeywordSet {
	out := KeywordSet{
		Name:     strings.ToLower(strings.TrimSpace(set.Name)),
		Keywords: make([]string, 0, len(set.Keywords)),
	}
	seen := make(map[string]struct{}, len(set.Keywords))
	for _, k := range set.Keywords {
		k = strings.Join(strings.Fields(strings.ToLower(k)), " ")
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.Keywords = append(out.Keywords, k)
	}
	return out
}
