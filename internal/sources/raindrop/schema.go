package raindrop

import "time"

// listResponse is the wire shape of GET /raindrops/{collection}.
type listResponse struct {
	Result bool      `json:"result"`
	Items  []apiItem `json:"items"`
	Count  int       `json:"count"`
}

// apiItem is one raindrop as the API returns it. Only the fields the
// engine consumes are decoded.
type apiItem struct {
	ID         int64     `json:"_id"`
	Link       string    `json:"link"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Tags       []string  `json:"tags"`
	Created    time.Time `json:"created"`
	LastUpdate time.Time `json:"lastUpdate"`
}
