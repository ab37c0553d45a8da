package ingest

import (
	"folio/internal/domain/content"
	"sort"
)

type TagStat struct {
	Name  string
	Count int
	// Known is false for tags used by an entry but missing from the catalog
	Known bool
}

// TagStats counts tag usage over papers, project tech stacks and posts.
// Catalog tags nobody uses are listed with a zero count.
func TagStats(s *content.Site) []TagStat {
	counts := make(map[string]int)
	for _, p := range s.Papers {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	for _, p := range s.Projects {
		for _, t := range p.TechStack {
			counts[t]++
		}
	}
	for _, p := range s.Posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}

	known := make(map[string]bool, len(s.Tags))
	for _, t := range s.Tags {
		known[t] = true
		if _, ok := counts[t]; !ok {
			counts[t] = 0
		}
	}

	stats := make([]TagStat, 0, len(counts))
	for name, c := range counts {
		stats = append(stats, TagStat{Name: name, Count: c, Known: known[name]})
	}
	sort.Slice(stats, func(i, j int) bool {
		// 按数量降序，数量相同按名字排序
		if stats[i].Count == stats[j].Count {
			return stats[i].Name < stats[j].Name
		}
		return stats[i].Count > stats[j].Count
	})
	return stats
}
