package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"groupmap/internal/logging"
	"groupmap/internal/retrypolicy"
)

// Search resolves a variation set into the deduplicated set of candidate IDs
// matching any variation. Variations are queried in fixed-size batches; each
// batch holds the global in-flight permit for its full lifetime, including
// page continuations. Batch-level failures degrade to partial or empty
// contributions and are logged; the only returned error is context
// cancellation during permit acquisition.
func (g *Gateway) Search(ctx context.Context, variations []string) (map[int64]struct{}, error) {
	found := make(map[int64]struct{})
	for start := 0; start < len(variations); start += g.batchSize {
		end := min(start+g.batchSize, len(variations))
		batch := variations[start:end]

		if err := g.permit.Acquire(ctx, 1); err != nil {
			return found, fmt.Errorf("acquire search permit: %w", err)
		}
		g.metrics.SearchStarted()
		g.searchBatch(ctx, batch, found)
		g.metrics.SearchFinished()
		g.permit.Release(1)
	}
	return found, nil
}

// searchBatch runs one batched query plus its continuations, merging hits
// into found. Exhausted retries on the initial query drop the batch; mid
// pagination they keep the pages already collected.
func (g *Gateway) searchBatch(ctx context.Context, batch []string, found map[int64]struct{}) {
	body, err := json.Marshal(g.buildQuery(batch))
	if err != nil {
		g.logger.Error("encode search query", logging.Error(err), logging.Int("batch_size", len(batch)))
		return
	}

	var page pageResponse
	outcome, err := g.doWithRetry(ctx, g.searchPath(), body, &page)
	if outcome != retrypolicy.Succeeded {
		g.logger.Error("initial search failed; batch contributes no candidates",
			logging.Error(err),
			logging.Int("batch_size", len(batch)),
			logging.String(logging.FieldEventType, "search_batch_dropped"),
		)
		return
	}

	g.collectHits(page.Hits.Hits, found)
	scrollID := page.ScrollID
	pages := 1

	for len(page.Hits.Hits) > 0 {
		if scrollID == "" {
			g.logger.Warn("response carries hits but no continuation token; stopping pagination",
				logging.Int("pages", pages))
			return
		}
		scrollBody, err := json.Marshal(scrollRequest{Scroll: g.scroll, ScrollID: scrollID})
		if err != nil {
			g.logger.Error("encode scroll request", logging.Error(err))
			return
		}

		page = pageResponse{}
		outcome, err = g.doWithRetry(ctx, "/_search/scroll", scrollBody, &page)
		if outcome != retrypolicy.Succeeded {
			g.logger.Warn("pagination aborted; keeping candidates from completed pages",
				logging.Error(err),
				logging.Int("pages", pages),
				logging.String(logging.FieldEventType, "search_scroll_partial"),
			)
			return
		}
		if len(page.Hits.Hits) == 0 {
			return
		}
		if page.ScrollID != "" {
			scrollID = page.ScrollID
		}
		g.collectHits(page.Hits.Hits, found)
		pages++
	}
}

func (g *Gateway) searchPath() string {
	return fmt.Sprintf("/%s/_search?scroll=%s", url.PathEscape(g.index), url.QueryEscape(g.scroll))
}

// doWithRetry issues one logical request under the retry policy. A fresh node
// is picked for every attempt so a dead endpoint only costs the attempts
// routed to it.
func (g *Gateway) doWithRetry(ctx context.Context, path string, body []byte, out *pageResponse) (retrypolicy.Outcome, error) {
	policy := g.retry
	policy.OnRetry = func(err error, wait time.Duration) {
		g.metrics.SearchRetried()
		g.logger.Warn("search request failed; retrying",
			logging.Error(err),
			logging.Duration("wait", wait),
		)
	}
	return policy.Do(ctx, func() error {
		*out = pageResponse{}
		return g.doRequest(ctx, g.pickNode()+path, body, out)
	})
}

func (g *Gateway) doRequest(ctx context.Context, requestURL string, body []byte, out *pageResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return retrypolicy.Permanent(fmt.Errorf("%w: build request: %w", ErrProtocol, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	defer resp.Body.Close()

	if retryableStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d from %s", ErrTransient, resp.StatusCode, requestURL)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return retrypolicy.Permanent(fmt.Errorf("%w: status %d from %s", ErrProtocol, resp.StatusCode, requestURL))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retrypolicy.Permanent(fmt.Errorf("%w: decode response: %w", ErrProtocol, err))
	}
	return nil
}

// collectHits extracts candidate IDs from a page. Hits missing the ID field
// or carrying a non-numeric value are skipped with a warning; the rest of the
// page still counts.
func (g *Gateway) collectHits(hits []hit, found map[int64]struct{}) {
	for _, h := range hits {
		raw, ok := h.Source[g.idField]
		if !ok {
			g.logger.Warn("hit missing candidate ID field", logging.String("field", g.idField))
			continue
		}
		var id int64
		if err := json.Unmarshal(raw, &id); err != nil {
			g.logger.Warn("hit carries non-numeric candidate ID",
				logging.String("field", g.idField),
				logging.Error(err),
			)
			continue
		}
		found[id] = struct{}{}
	}
}

func (g *Gateway) pickNode() string {
	return g.nodes[rand.Intn(len(g.nodes))]
}

func (g *Gateway) buildQuery(batch []string) map[string]any {
	should := make([]map[string]any, 0, len(batch))
	for _, variation := range batch {
		should = append(should, map[string]any{
			"match_phrase": map[string]any{g.matchField: variation},
		})
	}
	return map[string]any{
		"size": g.pageSize,
		"query": map[string]any{
			"bool": map[string]any{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"_source": []string{g.idField},
	}
}
