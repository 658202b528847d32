// SPDX-License-Identifier: MIT

package classify

import (
	"strings"

	"github.com/ManuGH/m3ucat/internal/textnorm"
)

// categoryRules are checked in order; the first group with a matching keyword
// wins. Keywords are the diacritic-folded uppercase forms, so ÇOCUK matches
// COCUK and DİL EĞİTİMİ matches DIL EGITIMI.
var categoryRules = []struct {
	label    string
	keywords []string
}{
	{"Sports", []string{"SPOR"}},
	{"Movies", []string{"SINEMA", "FILM", "CINEMA", "BIOSCOOP", "MOVIE"}},
	{"Kids", []string{"COCUK", "KIDS", "KINDER", "ENFANT"}},
	{"News", []string{"HABER", "NEWS"}},
	{"Documentary", []string{"BELGESEL", "DOCUMENTARE", "DOCUMANTAIRE"}},
	{"Classic", []string{"CLASSIC"}},
	{"Relaxation", []string{"RELAXATION"}},
	{"Music", []string{"MUZIK", "MUSIQUE", "MUZIEK"}},
	{"Adult", []string{"ADULT"}},
	{"Language Education", []string{"DIL EGITIMI"}},
}

// platformRules are checked in order on the folded lowercase group title.
// Order matters: a title containing both hbo and netflix yields HBO Max.
// Common provider misspellings of Netflix are accepted.
var platformRules = []struct {
	label    string
	keywords []string
}{
	{"Amazon Prime", []string{"amazon"}},
	{"BluTV", []string{"blu"}},
	{"Disney+", []string{"disney"}},
	{"Exxen", []string{"ex-xen", "exxen"}},
	{"GAİN", []string{"gain"}},
	{"HBO Max", []string{"hbo"}},
	{"Netflix", []string{"netflix", "netfliix", "netfilix"}},
	{"Paramount Plus", []string{"paramount-plus"}},
	{"Tabii", []string{"tabii"}},
	{"Yeşilçam", []string{"yesilcam"}},
	{"Apple TV", []string{"apple"}},
}

// Category maps a group title onto the fixed category label set.
func Category(groupTitle string) string {
	gt := textnorm.Upper(groupTitle)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(gt, kw) {
				return rule.label
			}
		}
	}
	return ""
}

// Quality extracts the stream quality tag. 4K outranks UHD outranks FHD when
// a group title carries several.
func Quality(groupTitle string) string {
	gt := textnorm.Upper(groupTitle)
	switch {
	case strings.Contains(gt, "4K"):
		return "4K"
	case strings.Contains(gt, "UHD"):
		return "UHD"
	case strings.Contains(gt, "FHD"):
		return "FHD"
	}
	return ""
}

// Platform maps a group title onto the fixed streaming platform label set.
func Platform(groupTitle string) string {
	gt := textnorm.Lower(groupTitle)
	for _, rule := range platformRules {
		for _, kw := range rule.keywords {
			if strings.Contains(gt, kw) {
				return rule.label
			}
		}
	}
	return ""
}
