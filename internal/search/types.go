package search

import "encoding/json"

// pageResponse is the subset of the cluster's search/scroll response the
// gateway consumes.
type pageResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	Source map[string]json.RawMessage `json:"_source"`
}

// scrollRequest fetches the next page for a continuation token.
type scrollRequest struct {
	Scroll   string `json:"scroll"`
	ScrollID string `json:"scroll_id"`
}
