package valueobjects

import "strings"

// NormalizeAccount canonicalizes an opaque account identifier. Identifier
// equality is the ledger's sole proof of identity, so comparisons must not
// depend on caller-supplied casing or whitespace.
func NormalizeAccount(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
