package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxPostContentLen    = 500
	MaxCommentContentLen = 200
)

var (
	v          = validator.New()
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	sanitizeRe = regexp.MustCompile(`[<>]`)
)

func Email(email string) bool {
	return v.Var(email, "required,email") == nil
}

// Username: 3-20 chars, letters, digits and underscores only.
func Username(username string) bool {
	return usernameRe.MatchString(username)
}

func PostContent(content string) bool {
	return boundedContent(content, MaxPostContentLen)
}

func CommentContent(content string) bool {
	return boundedContent(content, MaxCommentContentLen)
}

// Length limits apply to the trimmed rune count, not raw bytes, so
// multibyte text and surrounding whitespace don't eat into the budget.
func boundedContent(content string, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	return n > 0 && n <= max
}

// Sanitize trims whitespace and strips angle brackets. Minimal pass;
// rendering-side escaping is the client's concern.
func Sanitize(input string) string {
	return sanitizeRe.ReplaceAllString(strings.TrimSpace(input), "")
}
