package emotions

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/workmood/workmood-backend/model"
)

// IngestionService defines the ingestion operations the handler delegates
// to. The organization service satisfies it.
type IngestionService interface {
	IngestWorkEmotions(ctx context.Context, orgKey string, entries []model.WorkEmotionEntry) (model.Organization, error)
	InitConsultancies(ctx context.Context, orgKey string, entries []model.WorkEmotionEntry) error
}

// HandleEntryBatch processes one ingestion batch event: the observations are
// appended first, then consultancy sessions are initialized from the same
// entries, matching the REST submission order.
func HandleEntryBatch(ctx context.Context, msg []byte, service IngestionService) error {
	var event EntryBatchEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal EntryBatchEvent: %w", err)
	}

	if event.OrgKey == "" || len(event.Entries) == 0 {
		return fmt.Errorf("invalid event: missing required fields")
	}

	log.Printf("Processing emotion entry batch %s (%d entries)", event.EventID, len(event.Entries))

	if _, err := service.IngestWorkEmotions(ctx, event.OrgKey, event.Entries); err != nil {
		return fmt.Errorf("failed to ingest entries for batch %s: %w", event.EventID, err)
	}

	if err := service.InitConsultancies(ctx, event.OrgKey, event.Entries); err != nil {
		return fmt.Errorf("failed to init consultancies for batch %s: %w", event.EventID, err)
	}

	return nil
}
