package database

import (
	"slices"
	"time"

	"github.com/nao1215/linkscan/internal/model"
)

// SnapshotDiff describes how a domain changed between two snapshots.
type SnapshotDiff struct {
	// Domain is the compared base domain.
	Domain string `json:"domain"`

	// BaselineID and LatestID identify the compared snapshots.
	BaselineID int64 `json:"baseline_id"`
	LatestID   int64 `json:"latest_id"`

	// BaselineAt and LatestAt are the snapshot timestamps.
	BaselineAt time.Time `json:"baseline_at"`
	LatestAt   time.Time `json:"latest_at"`

	// PagesDelta is the page-count change from baseline to latest.
	PagesDelta int `json:"pages_delta"`

	// AddedLinks are URLs present only in the latest snapshot, sorted.
	AddedLinks []string `json:"added_links"`

	// RemovedLinks are URLs present only in the baseline, sorted.
	RemovedLinks []string `json:"removed_links"`
}

// Compare diffs two snapshots of the same domain, with the older one as
// the baseline. Links are compared by URL.
func Compare(baseline, latest *Snapshot) *SnapshotDiff {
	baseSet := linkSet(baseline.Result)
	latestSet := linkSet(latest.Result)

	added := make([]string, 0)
	removed := make([]string, 0)
	for url := range latestSet {
		if !baseSet[url] {
			added = append(added, url)
		}
	}
	for url := range baseSet {
		if !latestSet[url] {
			removed = append(removed, url)
		}
	}
	slices.Sort(added)
	slices.Sort(removed)

	return &SnapshotDiff{
		Domain:       latest.BaseDomain,
		BaselineID:   baseline.ID,
		LatestID:     latest.ID,
		BaselineAt:   baseline.CreatedAt,
		LatestAt:     latest.CreatedAt,
		PagesDelta:   latest.Result.CrawlInfo.PagesCrawled - baseline.Result.CrawlInfo.PagesCrawled,
		AddedLinks:   added,
		RemovedLinks: removed,
	}
}

// linkSet collects the distinct link URLs of a crawl result.
func linkSet(result *model.CrawlResult) map[string]bool {
	set := make(map[string]bool, len(result.Links))
	for i := range result.Links {
		set[result.Links[i].URL] = true
	}
	return set
}
