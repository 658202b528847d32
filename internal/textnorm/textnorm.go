// SPDX-License-Identifier: MIT

// Package textnorm normalizes free-text playlist metadata for matching.
//
// IPTV playlists mix ASCII and Turkish spellings of the same tokens
// ("DIL EGITIMI" vs "DİL EĞİTİMİ", "Yeşilçam" vs "yesilcam"). All classifier
// matching goes through the fold in this package so results do not depend on
// platform locale defaults.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder decomposes characters, strips combining marks and maps the Turkish
// dotless ı (which has no decomposition) onto ASCII i. The decomposition of
// İ is I plus a combining dot above, so it folds to I without a special case.
var folder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}),
	norm.NFC,
)

// Fold removes diacritics from s, mapping Turkish letters onto their ASCII
// base forms. Case is preserved.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return out
}

// Upper returns the diacritic-folded, uppercased form of s.
func Upper(s string) string {
	return strings.ToUpper(Fold(s))
}

// Lower returns the diacritic-folded, lowercased form of s.
func Lower(s string) string {
	return strings.ToLower(Fold(s))
}
