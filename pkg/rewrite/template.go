package rewrite

import (
	"strings"

	"github.com/gnana997/transform-imports/pkg/config"
)

// Substitute replaces every occurrence of ${member} in template with member.
// A template without the placeholder is returned unchanged; a constant path
// is a valid configuration.
func Substitute(template, member string) string {
	return strings.ReplaceAll(template, config.MemberPlaceholder, member)
}
