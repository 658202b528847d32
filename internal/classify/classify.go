// SPDX-License-Identifier: MIT

// Package classify derives typed catalog attributes from the two free-text
// fields of a playlist entry (group-title and tvg-name).
//
// Every rule set is a pure function over its inputs, evaluated with fixed
// first-match-wins precedence. Matching happens on diacritic-folded text
// (see internal/textnorm) so ASCII and Turkish spellings classify the same.
// The empty string means "not detected" throughout.
package classify

// MediaKind distinguishes live streams from on-demand content.
type MediaKind string

const (
	MediaLive     MediaKind = "Live"
	MediaOnDemand MediaKind = "On Demand"
)

// ContentType is the coarse content category of an entry.
type ContentType string

const (
	TypeTV     ContentType = "TV"
	TypeSeries ContentType = "Series"
	TypeMovie  ContentType = "Movie"
	TypeRadio  ContentType = "Radio"
)

// Result bundles the output of all rule sets for one entry.
type Result struct {
	Language string
	Media    MediaKind
	Type     ContentType
	Category string
	Quality  string
	Platform string
	Year     string
	Season   string
	Episode  string
	Name     string
}

// Classify runs every rule set against the given group-title and tvg-name.
func Classify(groupTitle, tvgName string) Result {
	season, episode := SeasonEpisode(tvgName)
	return Result{
		Language: Language(groupTitle),
		Media:    Media(groupTitle),
		Type:     Type(groupTitle, tvgName),
		Category: Category(groupTitle),
		Quality:  Quality(groupTitle),
		Platform: Platform(groupTitle),
		Year:     Year(groupTitle, tvgName),
		Season:   season,
		Episode:  episode,
		Name:     DisplayName(tvgName),
	}
}
