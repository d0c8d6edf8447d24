// Package ingest defines the Kafka event schema for incoming articles and
// the consumer that registers them into the inverted index.
package ingest

import "time"

// ArticleEvent is the Kafka message payload produced for each article that
// should be registered into the index.
type ArticleEvent struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Tokens     []string  `json:"tokens"`
	IngestedAt time.Time `json:"ingested_at"`
}
