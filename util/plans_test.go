package util

import (
	"testing"
	"time"
)

const catalogYAML = `
plans:
  - name: starter
    price: 49.99
    introducedOn: "2024-03-01T00:00:00Z"
    faceDetector:
      name: yunet
      version: "1.0"
    faceMatcher:
      name: sface
      version: "1.0"
    emotionRecognizer:
      name: ferplus
      version: "2.1"
    assistant:
      name: emotionistant
      version: "1.0"
    additionalFeatures:
      - basic-ranking
  - name: enterprise
    price: 499.99
    introducedOn: "2024-06-15T00:00:00Z"
    faceDetector:
      name: yunet
      version: "2.0"
    faceMatcher:
      name: sface
      version: "2.0"
    emotionRecognizer:
      name: ferplus
      version: "3.0"
    assistant:
      name: emotionistant
      version: "2.0"
    additionalFeatures:
      - basic-ranking
      - special-considerations
`

func TestParsePlanCatalog(t *testing.T) {
	catalog, err := ParsePlanCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("ParsePlanCatalog: %v", err)
	}

	plan, ok := catalog.Plan("enterprise")
	if !ok {
		t.Fatal("enterprise plan missing")
	}
	if plan.Price != 499.99 {
		t.Errorf("price = %v", plan.Price)
	}
	if want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC); !plan.IntroducedOn.Equal(want) {
		t.Errorf("introducedOn = %v, want %v", plan.IntroducedOn, want)
	}
	if plan.EmotionRecognizer.Name != "ferplus" || plan.EmotionRecognizer.Version != "3.0" {
		t.Errorf("emotionRecognizer = %+v", plan.EmotionRecognizer)
	}
	if len(plan.AdditionalFeatures) != 2 {
		t.Errorf("additionalFeatures = %v", plan.AdditionalFeatures)
	}

	if len(catalog.Names()) != 2 {
		t.Errorf("names = %v", catalog.Names())
	}
	if _, ok := catalog.Plan("ghost"); ok {
		t.Error("unknown plan must not resolve")
	}
}

func TestParsePlanCatalogBadTimestamp(t *testing.T) {
	raw := []byte("plans:\n  - name: broken\n    introducedOn: \"yesterday\"\n")
	if _, err := ParsePlanCatalog(raw); err == nil {
		t.Fatal("expected a parse error for a bad introducedOn")
	}
}
