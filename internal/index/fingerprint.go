package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/shaoshing/jscs-jsdoc/internal/checker"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Fingerprint creates a deterministic violation ID.
// Line and column are left out so the ID survives edits elsewhere in the
// file; ordinal separates repeated violations of the same function name.
func Fingerprint(v checker.Violation, ordinal int) string {
	rule := strings.TrimSpace(v.Rule)
	if rule == "" {
		rule = "rule"
	}

	name := canonicalize(v.Function)
	if name == "" {
		name = "_"
	}

	fingerprint := strings.Join([]string{
		rule,
		canonicalize(v.File),
		name,
		canonicalize(v.Message),
		fmt.Sprint(ordinal),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s/%s:%s", rule, name, short)
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}
