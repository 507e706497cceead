package flow

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/m3rciful/todobot/internal/model"
)

// ValidName accepts any non-empty text that does not begin with the command
// prefix, so a stray command is never swallowed as a name or login.
func ValidName(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && !strings.HasPrefix(text, "/")
}

// validLogin applies ValidName and rejects logins already held by another
// user. The lookup is a case-sensitive exact match.
func validLogin(ctx context.Context, store Store, login string) (bool, error) {
	if !ValidName(login) {
		return false, nil
	}
	taken, err := store.LoginTaken(ctx, login)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Length bounds count runes, not bytes, so multibyte alphabets get the full
// limit.
func validTitle(text string) bool {
	return ValidName(text) && utf8.RuneCountInString(strings.TrimSpace(text)) <= model.TitleMaxLen
}

func validDescription(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && utf8.RuneCountInString(text) <= model.DescriptionMaxLen
}
