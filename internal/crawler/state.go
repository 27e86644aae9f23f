package crawler

import (
	"sync"

	"github.com/nao1215/linkscan/internal/model"
)

// QueueItem is one frontier entry: a URL and the depth it was found at.
type QueueItem struct {
	URL   string
	Depth int
}

// CrawlState holds the frontier, the visited set, and the accumulating
// results of one crawl. All methods are safe for concurrent use; the
// visited check at claim time is the authoritative duplicate guard.
//
// Design decision: We count the page budget on claims, before the fetch,
// because:
//  1. Workers can then never overshoot max pages, no matter how they race
//  2. A failed fetch still spent a request, so it should spend budget
//  3. The claim is a single locked step: pop, mark visited, count
type CrawlState struct {
	mu       sync.Mutex
	queue    []QueueItem
	visited  map[string]bool
	claimed  int
	maxPages int

	pages []model.PageRecord
	links []model.Link
	files []model.Link
}

// NewCrawlState seeds the frontier with the start URL at depth zero.
func NewCrawlState(startURL string, maxPages int) *CrawlState {
	return &CrawlState{
		queue:    []QueueItem{{URL: startURL, Depth: 0}},
		visited:  make(map[string]bool),
		maxPages: maxPages,
	}
}

// Claim pops the next crawlable frontier item, marks it visited, and counts
// it against the page budget. Items already visited or beyond maxDepth are
// discarded without spending budget. The second return is false when the
// frontier is empty or the budget is spent.
func (s *CrawlState) Claim(maxDepth int) (QueueItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 {
		if s.claimed >= s.maxPages {
			return QueueItem{}, false
		}
		item := s.queue[0]
		s.queue = s.queue[1:]
		if s.visited[item.URL] || item.Depth > maxDepth {
			continue
		}
		s.visited[item.URL] = true
		s.claimed++
		return item, true
	}
	return QueueItem{}, false
}

// ClaimBatch claims every crawlable frontier item at the current depth, up
// to the page budget. Worker mode processes one batch per depth level so
// the crawl stays breadth-first.
func (s *CrawlState) ClaimBatch(maxDepth int) []QueueItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var batch []QueueItem
	level := -1
	for len(s.queue) > 0 && s.claimed < s.maxPages {
		item := s.queue[0]
		if level >= 0 && item.Depth != level {
			break
		}
		s.queue = s.queue[1:]
		if s.visited[item.URL] || item.Depth > maxDepth {
			continue
		}
		s.visited[item.URL] = true
		s.claimed++
		level = item.Depth
		batch = append(batch, item)
	}
	return batch
}

// Unclaim refunds the budget for a claimed item that will not be fetched,
// such as one disallowed by robots.txt. The URL stays visited so it is
// never reconsidered.
func (s *CrawlState) Unclaim() {
	s.mu.Lock()
	s.claimed--
	s.mu.Unlock()
}

// Record stores a visited page's results and extends the frontier. The
// enqueue-side visited check only trims the queue early; Claim re-checks.
func (s *CrawlState) Record(page model.PageRecord, links, files []model.Link, next []QueueItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = append(s.pages, page)
	s.links = append(s.links, links...)
	s.files = append(s.files, files...)
	for _, item := range next {
		if !s.visited[item.URL] {
			s.queue = append(s.queue, item)
		}
	}
}

// Claimed returns how many pages were claimed, which is the crawl's
// pages-crawled figure: fetch attempts, successful or not.
func (s *CrawlState) Claimed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimed
}

// Pages returns the accumulated page records.
func (s *CrawlState) Pages() []model.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Links returns the accumulated links.
func (s *CrawlState) Links() []model.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links
}

// Files returns the accumulated file links.
func (s *CrawlState) Files() []model.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}
