package assetstore

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLen = 120
	nonceLen   = 8
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^A-Za-z0-9_\-.]`)
	multiSepRe   = regexp.MustCompile(`[-_]{2,}`)
)

// Slug folds a review name into characters every provider accepts in an
// object identifier. Accents are stripped, whitespace becomes "_".
func Slug(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	s := strings.TrimSpace(folded)
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = unsafeRe.ReplaceAllString(s, "")
	s = multiSepRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "-_.")

	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-_.")
	}
	return s
}

// NewNonce returns a short random suffix for PublicID.
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nonceLen]
}

// PublicID derives the remote identifier for an upload of name submitted at
// at. Two uploads of one name in the same millisecond differ only by nonce,
// so callers must pass a fresh one per upload.
func PublicID(name string, at time.Time, nonce string) string {
	slug := Slug(name)
	if slug == "" {
		slug = "review"
	}
	if nonce == "" {
		return fmt.Sprintf("%s_%d", slug, at.UnixMilli())
	}
	return fmt.Sprintf("%s_%d_%s", slug, at.UnixMilli(), nonce)
}
