// SPDX-License-Identifier: MIT

package catalog

import (
	"sort"
	"strconv"

	"github.com/ManuGH/m3ucat/internal/classify"
)

// GroupedSeries is the per-show aggregate derived from per-episode records.
// Representative is the episode shown in list views, Items is every record
// sharing the group key, Seasons buckets episodes per season label with
// episodes sorted by episode number descending.
type GroupedSeries struct {
	Representative ContentItem              `json:"representative"`
	Items          []ContentItem            `json:"items"`
	Seasons        map[string][]ContentItem `json:"seasons"`
}

// SeasonBucket is one season of a show with its episodes, used for ordered
// season listings.
type SeasonBucket struct {
	Season   string        `json:"season"`
	Episodes []ContentItem `json:"episodes"`
}

// Groups holds the grouping result. Keys keep first-seen order so derived
// listings are deterministic across runs.
type Groups struct {
	byKey map[string]*GroupedSeries
	order []string
}

// unknownSeason labels episodes whose name carries no season token.
const unknownSeason = "unknown"

// noLanguage stands in for an undetected language inside group keys.
const noLanguage = "no-lang"

// groupKey collapses series episodes by show identity; every other record is
// its own singleton group keyed by position.
func groupKey(item ContentItem) string {
	if item.Type == classify.TypeSeries {
		lang := item.Language
		if lang == "" {
			lang = noLanguage
		}
		return item.Name + "-" + lang + "-" + string(item.Type)
	}
	return string(item.Type) + "-" + strconv.Itoa(item.ID)
}

// GroupSeries collapses items into show-level groups. The representative of a
// group converges to the episode with the maximum (season, episode) pair
// regardless of input order.
func GroupSeries(items []ContentItem) *Groups {
	g := &Groups{byKey: make(map[string]*GroupedSeries)}

	for _, item := range items {
		key := groupKey(item)
		group, ok := g.byKey[key]
		if !ok {
			group = &GroupedSeries{
				Representative: item,
				Seasons:        make(map[string][]ContentItem),
			}
			g.byKey[key] = group
			g.order = append(g.order, key)
		} else if laterEpisode(group.Representative, item) {
			group.Representative = item
		}

		group.Items = append(group.Items, item)

		season := item.Season
		if season == "" {
			season = unknownSeason
		}
		group.Seasons[season] = append(group.Seasons[season], item)
	}

	// Episodes within a season bucket are listed newest-first.
	for _, key := range g.order {
		for _, episodes := range g.byKey[key].Seasons {
			sort.SliceStable(episodes, func(i, j int) bool {
				return parseOrdinal(episodes[i].Episode) > parseOrdinal(episodes[j].Episode)
			})
		}
	}

	return g
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// Representatives returns one ContentItem per group in first-seen order.
func (g *Groups) Representatives() []ContentItem {
	items := make([]ContentItem, 0, len(g.order))
	for _, key := range g.order {
		items = append(items, g.byKey[key].Representative)
	}
	return items
}

// For returns the group containing item, or nil when the item was not part of
// the grouped collection.
func (g *Groups) For(item ContentItem) *GroupedSeries {
	return g.byKey[groupKey(item)]
}

// Keys returns the group keys in first-seen order.
func (g *Groups) Keys() []string {
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys
}

// ByKey returns the group stored under key, or nil.
func (g *Groups) ByKey(key string) *GroupedSeries {
	return g.byKey[key]
}

// SortedSeasons returns the season buckets of a group sorted by parsed season
// number descending; the unknown bucket sorts last.
func SortedSeasons(group *GroupedSeries) []SeasonBucket {
	if group == nil {
		return nil
	}
	buckets := make([]SeasonBucket, 0, len(group.Seasons))
	for season, episodes := range group.Seasons {
		buckets = append(buckets, SeasonBucket{Season: season, Episodes: episodes})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return parseOrdinal(buckets[i].Season) > parseOrdinal(buckets[j].Season)
	})
	return buckets
}

// laterEpisode reports whether candidate has a strictly greater
// (season, episode) pair than current. Missing numbers count as zero.
func laterEpisode(current, candidate ContentItem) bool {
	cs, ce := parseOrdinal(current.Season), parseOrdinal(current.Episode)
	ns, ne := parseOrdinal(candidate.Season), parseOrdinal(candidate.Episode)
	if ns != cs {
		return ns > cs
	}
	return ne > ce
}

func parseOrdinal(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
