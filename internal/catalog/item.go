// SPDX-License-Identifier: MIT

// Package catalog turns raw playlist text into classified content records and
// groups per-episode records into per-show aggregates.
package catalog

import (
	"github.com/ManuGH/m3ucat/internal/classify"
	"github.com/ManuGH/m3ucat/internal/playlist"
)

// SourceIPTV is the provenance tag assigned to every record produced by this
// pipeline. Other sources are assigned by external collaborators.
const SourceIPTV = "IPTV"

// ContentItem is one classified catalog record. Empty strings mean "not
// detected" for all optional fields; Season and Episode are always set or
// empty together.
//
// ID is the 1-based position of the entry within one parse pass. It is a
// display-order hint only: parsing a different subset of the same playlist
// assigns different ids to the same logical entry. URL is the stable identity
// for persistent references (watch history, lists).
type ContentItem struct {
	ID       int                   `json:"id"`
	Name     string                `json:"name,omitempty"`
	Language string                `json:"language,omitempty"`
	Media    classify.MediaKind    `json:"media,omitempty"`
	Type     classify.ContentType  `json:"type,omitempty"`
	Category string                `json:"category,omitempty"`
	Quality  string                `json:"quality,omitempty"`
	Platform string                `json:"platform,omitempty"`
	Year     string                `json:"year,omitempty"`
	Season   string                `json:"season,omitempty"`
	Episode  string                `json:"episode,omitempty"`
	Logo     string                `json:"logo,omitempty"`
	URL      string                `json:"url"`
	Source   string                `json:"source"`
}

// IsValidPlaylist reports whether text can be ingested at all. Callers must
// treat false as "reject the whole file".
func IsValidPlaylist(text string) bool {
	return playlist.IsValid(text)
}

// Parse runs the full tokenize-classify-assemble pipeline over raw playlist
// text. It never fails: malformed entries degrade to records with empty
// fields rather than aborting the pass. Output is deterministic for a given
// input.
func Parse(text string) []ContentItem {
	entries := playlist.Tokenize(text)
	items := make([]ContentItem, 0, len(entries))
	for i, entry := range entries {
		attrs := playlist.ExtractAttributes(entry.Metadata)
		res := classify.Classify(attrs.GroupTitle, attrs.TvgName)
		items = append(items, ContentItem{
			ID:       i + 1,
			Name:     res.Name,
			Language: res.Language,
			Media:    res.Media,
			Type:     res.Type,
			Category: res.Category,
			Quality:  res.Quality,
			Platform: res.Platform,
			Year:     res.Year,
			Season:   res.Season,
			Episode:  res.Episode,
			Logo:     attrs.TvgLogo,
			URL:      entry.URL,
			Source:   SourceIPTV,
		})
	}
	return items
}
