// Package query remembers submitted URLs and suggests them back while typing.
package query

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidgrab/vidgrab/filesystem"
	"github.com/vidgrab/vidgrab/key"
	"github.com/vidgrab/vidgrab/where"
	"golang.org/x/exp/slices"
)

type urlRecord struct {
	Rank int    `json:"rank"`
	URL  string `json:"url"`
}

var cacher = gache.New[map[string]*urlRecord](
	&gache.Options{
		Path:       where.URLs(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	// mu guards suggestionCache and the records shared with cacher.
	mu              sync.Mutex
	suggestionCache = make(map[string][]*urlRecord)
)

// Remember records submitted URLs, raising the rank of ones seen before.
func Remember(urls []string, weight int) error {
	mu.Lock()
	defer mu.Unlock()

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*urlRecord)
	}

	for _, u := range urls {
		u = sanitize(u)
		if u == "" {
			continue
		}

		if record, ok := cached[u]; ok {
			record.Rank += weight
		} else {
			cached[u] = &urlRecord{Rank: weight, URL: u}
		}
	}

	clear(suggestionCache)
	return cacher.Set(cached)
}

// Suggest returns the best remembered URL for a partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered URLs fuzzily matching the input, most used first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowURLSuggestions) {
		return []string{}
	}

	q = sanitize(q)
	if q == "" {
		return []string{}
	}

	mu.Lock()
	defer mu.Unlock()

	var records []*urlRecord

	if prev, ok := suggestionCache[q]; ok {
		records = prev
	} else {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, record := range cached {
			if fuzzy.MatchFold(q, record.URL) {
				records = append(records, record)
			}
		}

		slices.SortFunc(records, func(a, b *urlRecord) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.URL, b.URL)
		})

		suggestionCache[q] = records
	}

	return lo.Map(records, func(r *urlRecord, _ int) string {
		return r.URL
	})
}

func sanitize(u string) string {
	return strings.TrimSpace(u)
}
