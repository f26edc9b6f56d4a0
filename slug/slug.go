// Package slug derives URL-safe identifiers from blog titles.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonWordRunes   = regexp.MustCompile(`[^\w-]+`)
	hyphenRuns     = regexp.MustCompile(`--+`)
)

// Make derives a URL-safe identifier from a title: lower-case,
// whitespace runs collapsed to single hyphens, everything that is not
// a word character or hyphen stripped, hyphen runs collapsed, and the
// current epoch-millisecond timestamp appended as a uniqueness suffix.
//
// The suffix is best effort only. The unique index on the slug column
// is the real backstop; a collision surfaces as a Conflict at create
// time rather than being retried here.
//
// An empty title yields an empty slug and callers must refuse to
// proceed with creation.
func Make(title string) string {
	if title == "" {
		return ""
	}
	s := strings.ToLower(title)
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = nonWordRunes.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return fmt.Sprintf("%s-%d", s, time.Now().UnixMilli())
}
