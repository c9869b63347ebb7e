package ingest

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxNameLength     = 200
	MaxPasswordLength = 200
)

var (
	ErrNameRequired     = errors.New("review name is required")
	ErrNameTooLong      = errors.New("review name is too long")
	ErrNameMarkup       = errors.New("review name must not contain markup")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password is too long")

	strictPolicy = bluemonday.StrictPolicy()
	validate     = validator.New()

	// A complete tag or comment. A lone "<" as in "a<b" or "<3" is text.
	tagLikeRe = regexp.MustCompile(`<(?:/?[A-Za-z][^<>]*|!--.*?--)>`)
)

// ValidateName checks a review name is usable as a unique key. Names are
// stored exactly as given, so " Dup" and "Dup" are different reviews.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if tagLikeRe.MatchString(name) && strictPolicy.Sanitize(name) != escapeText(name) {
		return ErrNameMarkup
	}
	return nil
}

// bluemonday escapes the few characters that are special in HTML text even
// when no tag is present.
var htmlTextEscaper = strings.NewReplacer(`&`, "&amp;", `'`, "&#39;", `<`, "&lt;", `>`, "&gt;", `"`, "&#34;")

func escapeText(s string) string {
	return htmlTextEscaper.Replace(s)
}

type credentials struct {
	Password string `validate:"required,max=200"`
}

// CheckPassword validates the review access password. It is stored as
// given so an admin can read it back.
func CheckPassword(password string) error {
	err := validate.Struct(credentials{Password: password})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return ErrPasswordTooLong
	}
	return ErrPasswordRequired
}
