// SPDX-License-Identifier: MIT

package classify

import (
	"strings"

	"github.com/ManuGH/m3ucat/internal/textnorm"
)

// Media decides between live and on-demand from the group title. A bracketed
// country tag marks live channels, a piped tag marks on-demand libraries;
// radio groups are always live.
func Media(groupTitle string) MediaKind {
	gt := textnorm.Upper(groupTitle)

	switch {
	case bracketCodeRe.MatchString(gt):
		return MediaLive
	case strings.Contains(gt, "RADIO") || strings.Contains(gt, "RADYO"):
		return MediaLive
	case pipeCodeRe.MatchString(gt):
		return MediaOnDemand
	}
	return ""
}

// Type derives the content type. An SxxEyy token in the name is the strongest
// signal; group keywords come next; the bracket/pipe tag pattern is the last
// resort (brackets imply TV channels, pipes imply movie libraries).
func Type(groupTitle, tvgName string) ContentType {
	gt := textnorm.Upper(groupTitle)
	tn := textnorm.Upper(tvgName)

	switch {
	case seasonEpisodeRe.MatchString(tn):
		return TypeSeries
	case containsAny(gt, "DIZI", "SERIES"):
		return TypeSeries
	case containsAny(gt, "SINEMA", "FILM", "MOVIE", "CINEMA", "BIOSCOOP"):
		return TypeMovie
	case containsAny(gt, "RADIO", "RADYO"):
		return TypeRadio
	case bracketCodeRe.MatchString(gt):
		return TypeTV
	case pipeCodeRe.MatchString(gt):
		return TypeMovie
	}
	return ""
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
