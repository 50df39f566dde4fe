package label

import (
	"fmt"
	"strings"
)

// PatternKind discriminates the recognized visibility pattern forms.
type PatternKind int

const (
	// Public grants visibility to every package (//visibility:public).
	Public PatternKind = iota

	// Private grants visibility to no package beyond the declaring one
	// (//visibility:private).
	Private

	// SamePkg grants visibility to exactly one package (//pkg:__pkg__).
	SamePkg

	// Subpackages grants visibility to a package and everything beneath
	// it (//pkg:__subpackages__).
	Subpackages
)

// Pattern is a single validated visibility entry.
type Pattern struct {
	kind PatternKind
	pkg  string
}

// ParsePattern parses a visibility entry.
//
// Recognized forms:
//
//	//visibility:public
//	//visibility:private
//	//pkg:__pkg__
//	//pkg:__subpackages__
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "//visibility:public":
		return Pattern{kind: Public}, nil
	case "//visibility:private":
		return Pattern{kind: Private}, nil
	}

	if !strings.HasPrefix(s, "//") {
		return Pattern{}, fmt.Errorf("invalid visibility pattern %q: must start with //", s)
	}
	rest := s[2:]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return Pattern{}, fmt.Errorf("invalid visibility pattern %q: missing :__pkg__ or :__subpackages__", s)
	}
	pkg, suffix := rest[:colon], rest[colon+1:]
	if err := validatePkg(pkg); err != nil {
		return Pattern{}, fmt.Errorf("invalid visibility pattern %q: %w", s, err)
	}

	switch suffix {
	case "__pkg__":
		return Pattern{kind: SamePkg, pkg: pkg}, nil
	case "__subpackages__":
		return Pattern{kind: Subpackages, pkg: pkg}, nil
	}
	return Pattern{}, fmt.Errorf("invalid visibility pattern %q: unknown suffix %q", s, suffix)
}

// Kind returns the pattern kind.
func (p Pattern) Kind() PatternKind { return p.kind }

// Matches reports whether the pattern grants visibility to pkg.
func (p Pattern) Matches(pkg string) bool {
	switch p.kind {
	case Public:
		return true
	case Private:
		return false
	case SamePkg:
		return pkg == p.pkg
	case Subpackages:
		// The root package's subpackages are the whole repository.
		if p.pkg == "" {
			return true
		}
		return pkg == p.pkg || strings.HasPrefix(pkg, p.pkg+"/")
	}
	return false
}

// String returns the pattern in its source form.
func (p Pattern) String() string {
	switch p.kind {
	case Public:
		return "//visibility:public"
	case Private:
		return "//visibility:private"
	case SamePkg:
		return "//" + p.pkg + ":__pkg__"
	}
	return "//" + p.pkg + ":__subpackages__"
}

// Spec is an ordered visibility list. A dependent package is allowed if
// any entry matches it.
type Spec []Pattern

// ParseSpec parses a list of visibility entries into a Spec.
func ParseSpec(entries []string) (Spec, error) {
	spec := make(Spec, 0, len(entries))
	for _, e := range entries {
		p, err := ParsePattern(e)
		if err != nil {
			return nil, err
		}
		spec = append(spec, p)
	}
	return spec, nil
}

// Allows reports whether a target carrying this visibility may be
// depended on from pkg. The empty Spec allows nothing; same-package
// dependents are always allowed and are the caller's concern.
func (s Spec) Allows(pkg string) bool {
	for _, p := range s {
		if p.Matches(pkg) {
			return true
		}
	}
	return false
}

// Strings returns the source form of every entry, in order.
func (s Spec) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.String()
	}
	return out
}
