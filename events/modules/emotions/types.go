// Package emotions defines the Kafka event contract for work-emotion entry
// batches published by the recognition pipeline.
package emotions

import (
	"time"

	"github.com/workmood/workmood-backend/model"
)

// EntryBatchEvent represents one ingestion batch published to Kafka. OrgKey
// is the stored credential digest of the target organization, the same value
// the REST ingestion route takes as a query parameter.
type EntryBatchEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	OrgKey  string                   `json:"orgKey"`
	Entries []model.WorkEmotionEntry `json:"entries"`
}
