// Package query holds the task list filtering and ordering rules shared by
// every storage backend: tag extraction from a search string, the closed set
// of sort keys, and the in-memory query builder.
package query

import (
	"strings"

	dom "github.com/seowalex/cvwo/internal/domain"
)

// TagPrefix marks a search token as a tag filter.
const TagPrefix = '#'

// Search is a raw search string split into its plain text and tag filters.
type Search struct {
	Text string
	// Tags is a set; order follows first appearance in the raw string.
	Tags []string
}

// ExtractTags splits raw into plain text and tags. A token is a tag when it
// starts with '#'; the tag is the rest of the token. Plain tokens are rejoined
// with single spaces. A bare "#" yields an empty tag, which is dropped, and a
// repeated tag is kept once.
func ExtractTags(raw string) Search {
	var (
		plain []string
		tags  []string
		seen  map[string]struct{}
	)
	for _, tok := range strings.Fields(raw) {
		if tok[0] != TagPrefix {
			plain = append(plain, tok)
			continue
		}
		tag := tok[1:]
		if tag == "" {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return Search{Text: strings.Join(plain, " "), Tags: tags}
}

// Matches reports whether the task title contains the plain text
// case-insensitively and the task carries every search tag.
func (s Search) Matches(t dom.Task) bool {
	if s.Text != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(s.Text)) {
		return false
	}
	return t.HasTags(s.Tags)
}
