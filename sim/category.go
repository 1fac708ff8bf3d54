package sim

import (
	"fmt"
	"strings"
)

// Category identifies one of the game's theories. The zero value is not a
// valid category.
type Category int

const (
	T1 Category = iota + 1
	T2
	T3
	T4
	T5
	T6
	T7
	T8
	WSP
	SL
	EF
	CSR2
	FI
	FP
	RZ
	MF
	BaP
	TC
	BT
)

// categoryNames is indexed by Category-1 and fixes the positional order used
// by aggregate queries.
var categoryNames = []string{
	"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8",
	"WSP", "SL", "EF", "CSR2", "FI", "FP", "RZ", "MF", "BaP", "TC", "BT",
}

// unofficialCategories are community theories outside the official set.
var unofficialCategories = map[Category]bool{TC: true, BT: true}

// Categories returns every category in positional order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i + 1)
	}
	return out
}

// CategoryFromIndex maps a position in the enumeration to its category.
func CategoryFromIndex(i int) (Category, bool) {
	if i < 0 || i >= len(categoryNames) {
		return 0, false
	}
	return Category(i + 1), true
}

// ParseCategory resolves a category name. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown theory %q", s)
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool { return c >= T1 && int(c) <= len(categoryNames) }

// Index returns the positional index of c.
func (c Category) Index() int { return int(c) - 1 }

// Unofficial reports whether c is a community theory.
func (c Category) Unofficial() bool { return unofficialCategories[c] }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c-1]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid theory %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
