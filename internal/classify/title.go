// SPDX-License-Identifier: MIT

package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	seasonEpisodeRe = regexp.MustCompile(`(?i)S(\d{2,})E(\d{2,})`)
	parenYearRe     = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	groupYearRe     = regexp.MustCompile(`202[0-9]`)

	codeTokenRe     = regexp.MustCompile(`\[[A-Za-z0-9]+\]|\|[A-Za-z0-9]+\|`)
	countryPrefixRe = regexp.MustCompile(`^[A-Za-z]{2,3}\s*:\s*`)
	qualityTokenRe  = regexp.MustCompile(`(?i)\b(4K|UHD|FHD|HD)\b`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// SeasonEpisode extracts the SxxEyy token from a tvg-name and re-renders both
// numbers as decimal strings without leading zeros (S01E005 -> "1", "5").
// Both results are empty when no token is present; never just one.
func SeasonEpisode(tvgName string) (season, episode string) {
	m := seasonEpisodeRe.FindStringSubmatch(tvgName)
	if m == nil {
		return "", ""
	}
	s, err := strconv.Atoi(m[1])
	if err != nil {
		return "", ""
	}
	e, err := strconv.Atoi(m[2])
	if err != nil {
		return "", ""
	}
	return strconv.Itoa(s), strconv.Itoa(e)
}

// Year prefers a parenthesized release year in the tvg-name over a bare
// 202x token in the group title.
func Year(groupTitle, tvgName string) string {
	if m := parenYearRe.FindStringSubmatch(tvgName); m != nil {
		return m[1]
	}
	if m := groupYearRe.FindString(groupTitle); m != "" {
		return m
	}
	return ""
}

// DisplayName cleans a tvg-name into the display string: season/episode and
// year tokens, bracket/pipe codes, a leading country-code prefix and
// standalone quality tokens are stripped, then whitespace is collapsed.
// Empty results stay empty.
func DisplayName(tvgName string) string {
	name := tvgName
	name = seasonEpisodeRe.ReplaceAllString(name, " ")
	name = parenYearRe.ReplaceAllString(name, " ")
	name = codeTokenRe.ReplaceAllString(name, " ")
	name = countryPrefixRe.ReplaceAllString(name, "")
	name = qualityTokenRe.ReplaceAllString(name, " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
