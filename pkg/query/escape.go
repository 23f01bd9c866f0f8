package query

import "strings"

// EscapeChar is the escape character handed to the LIKE operator. It is
// always a single backslash regardless of dialect.
const EscapeChar = `\`

// Escaper prepares raw user input for use inside a LIKE pattern. Escaping
// runs in two tiers: the dialect-specific backslash sequence first, then the
// generic wildcard escaping. The order matters — the wildcard tier introduces
// backslashes that must not themselves be re-escaped by the first tier.
type Escaper struct {
	dialect Dialect
}

// NewEscaper returns an escaper bound to the given dialect policy.
func NewEscaper(d Dialect) Escaper {
	return Escaper{dialect: d}
}

// Escape neutralizes backslashes, '%' and '_' in s so they match literally
// under LIKE with EscapeChar as the escape character.
func (e Escaper) Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, e.dialect.BackslashEscapeSequence())
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Contains escapes s and wraps it in wildcards for a substring match.
func (e Escaper) Contains(s string) string {
	return "%" + e.Escape(s) + "%"
}
