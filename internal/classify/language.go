// SPDX-License-Identifier: MIT

package classify

import (
	"regexp"
	"strings"

	"github.com/ManuGH/m3ucat/internal/textnorm"
)

var (
	bracketCodeRe = regexp.MustCompile(`\[([A-Z]{2,3})\]`)
	pipeCodeRe    = regexp.MustCompile(`\|([A-Z]{2,3})\|`)
)

// languageCodes maps the short country/language tags providers embed in
// group titles onto the catalog's ISO-3-like code set.
var languageCodes = map[string]string{
	"TR": "tur", "TUR": "tur",
	"ALB": "alb", "AL": "alb",
	"AZ": "aze", "AZE": "aze",
	"DE": "deu", "DEU": "deu", "GER": "deu",
	"NL": "dut", "DUT": "dut", "NED": "dut",
	"EN": "eng", "ENG": "eng", "UK": "eng", "US": "eng", "USA": "eng",
	"FR": "fra", "FRA": "fra",
	"PT": "por", "POR": "por",
}

// Language detects the language code from a group title. A bracket or pipe
// enclosed tag wins and is final even when the tag is unknown; otherwise a
// literal TURKCE/TURKIYE marker maps to tur.
func Language(groupTitle string) string {
	gt := textnorm.Upper(groupTitle)

	if m := bracketCodeRe.FindStringSubmatch(gt); m != nil {
		return languageCodes[m[1]]
	}
	if m := pipeCodeRe.FindStringSubmatch(gt); m != nil {
		return languageCodes[m[1]]
	}
	if strings.Contains(gt, "TURKCE") || strings.Contains(gt, "TURKIYE") {
		return "tur"
	}
	return ""
}
