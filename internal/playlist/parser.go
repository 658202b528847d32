// SPDX-License-Identifier: MIT

// Package playlist tokenizes raw M3U text into metadata/URL entry pairs.
package playlist

import (
	"strings"
)

// Entry pairs one #EXTINF metadata line with its stream URL line.
// URL is empty when the metadata line has no following line.
type Entry struct {
	Metadata string
	URL      string
}

// Attributes holds the extended M3U attributes read by the pipeline.
// Absent attributes are empty strings.
type Attributes struct {
	GroupTitle string
	TvgName    string
	TvgLogo    string
}

// IsValid reports whether content looks like an M3U playlist: it starts with
// #EXTM3U after trimming, or contains at least one #EXTINF occurrence.
func IsValid(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "#EXTM3U") || strings.Contains(trimmed, "#EXTINF:")
}

// Tokenize splits content into entries. Lines are trimmed and empty lines
// dropped before pairing, so blank lines between a metadata line and its URL
// do not break the pair. A trailing metadata line without a URL still yields
// an entry with an empty URL.
func Tokenize(content string) []Entry {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var entries []Entry
	for i, line := range lines {
		if !strings.HasPrefix(line, "#EXTINF:") {
			continue
		}
		url := ""
		if i+1 < len(lines) {
			url = lines[i+1]
		}
		entries = append(entries, Entry{Metadata: line, URL: url})
	}
	return entries
}

// ExtractAttributes pulls group-title, tvg-name and tvg-logo out of a
// metadata line. Attribute order does not matter and any of the three may be
// missing.
func ExtractAttributes(metadata string) Attributes {
	return Attributes{
		GroupTitle: attrValue(metadata, "group-title"),
		TvgName:    attrValue(metadata, "tvg-name"),
		TvgLogo:    attrValue(metadata, "tvg-logo"),
	}
}

// attrValue extracts the quoted value of key="value" from line, or "".
func attrValue(line, key string) string {
	marker := key + `="`
	idx := strings.Index(line, marker)
	if idx == -1 {
		return ""
	}
	rest := line[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end == -1 {
		return ""
	}
	return rest[:end]
}
