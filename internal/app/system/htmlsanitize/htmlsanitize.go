// Package htmlsanitize detects markup in free-text fields. It uses
// bluemonday's strict policy, which removes every element and attribute and
// keeps only the text content.
package htmlsanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// IsPlainText reports whether s survives the strict policy unchanged, that
// is, whether it holds no elements. Entities and bare '<' or '>' count as
// text.
func IsPlainText(s string) bool {
	if s == "" {
		return true
	}
	return html.UnescapeString(getPolicy().Sanitize(s)) == html.UnescapeString(s)
}
