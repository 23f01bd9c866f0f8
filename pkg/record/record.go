package record

import "strings"

// Row is a single normalized result record: column name to scanned value.
type Row map[string]any

// Type is the minimal capability set a searchable record type must expose.
// The table name doubles as the type's stable identity.
type Type interface {
	TableName() string
}

// CategoryLabeled lets a record type override the default category label
// derived from its table name.
type CategoryLabeled interface {
	CategoryLabel() string
}

// ExternallyIndexed marks a record type whose searches are delegated to an
// external full-text index instead of pattern-matching SQL. The index name
// identifies the index the type's documents live in.
type ExternallyIndexed interface {
	SearchIndexName() string
}

// Label returns the category label for a record type: the type's own label
// when it provides one, otherwise the pluralized table name.
func Label(t Type) string {
	if cl, ok := t.(CategoryLabeled); ok {
		return cl.CategoryLabel()
	}
	return Pluralize(t.TableName())
}

// UsesExternalIndex reports whether the record type declares the
// delegated-index capability.
func UsesExternalIndex(t Type) bool {
	_, ok := t.(ExternallyIndexed)
	return ok
}

// Pluralize derives a table-like plural from a singular name. It covers the
// regular English cases; types needing anything smarter implement
// CategoryLabeled instead.
func Pluralize(name string) string {
	if name == "" {
		return name
	}
	switch {
	case strings.HasSuffix(name, "y") && !hasVowelBeforeY(name):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(name, "s"),
		strings.HasSuffix(name, "x"),
		strings.HasSuffix(name, "z"),
		strings.HasSuffix(name, "ch"),
		strings.HasSuffix(name, "sh"):
		return name + "es"
	default:
		return name + "s"
	}
}

func hasVowelBeforeY(name string) bool {
	if len(name) < 2 {
		return false
	}
	return strings.ContainsRune("aeiou", rune(name[len(name)-2]))
}
