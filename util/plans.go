package util

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/workmood/workmood-backend/model"
)

// planComponent mirrors model.SubscriptionComponent in the catalog file
type planComponent struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// planEntry is one plan definition in the YAML catalog
type planEntry struct {
	Name               string        `yaml:"name"`
	Price              float64       `yaml:"price"`
	IntroducedOn       string        `yaml:"introducedOn"`
	FaceDetector       planComponent `yaml:"faceDetector"`
	FaceMatcher        planComponent `yaml:"faceMatcher"`
	EmotionRecognizer  planComponent `yaml:"emotionRecognizer"`
	Assistant          planComponent `yaml:"assistant"`
	AdditionalFeatures []string      `yaml:"additionalFeatures"`
}

type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

// PlanCatalog resolves subscription plans by name
type PlanCatalog struct {
	plans map[string]model.Subscription
}

// LoadPlanCatalog reads the subscription plan catalog from a YAML file.
// Organizations registering with a plan name get the matching Subscription
// embedded in their document.
func LoadPlanCatalog(path string) (*PlanCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan catalog: %w", err)
	}
	return ParsePlanCatalog(raw)
}

// ParsePlanCatalog parses catalog YAML bytes
func ParsePlanCatalog(raw []byte) (*PlanCatalog, error) {
	var file planFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing plan catalog: %w", err)
	}

	catalog := &PlanCatalog{plans: make(map[string]model.Subscription, len(file.Plans))}
	for _, entry := range file.Plans {
		introducedOn, err := time.Parse(time.RFC3339, entry.IntroducedOn)
		if err != nil {
			return nil, fmt.Errorf("plan %q: bad introducedOn: %w", entry.Name, err)
		}
		catalog.plans[entry.Name] = model.Subscription{
			Name:               entry.Name,
			Price:              entry.Price,
			IntroducedOn:       introducedOn,
			FaceDetector:       model.SubscriptionComponent(entry.FaceDetector),
			FaceMatcher:        model.SubscriptionComponent(entry.FaceMatcher),
			EmotionRecognizer:  model.SubscriptionComponent(entry.EmotionRecognizer),
			Assistant:          model.SubscriptionComponent(entry.Assistant),
			AdditionalFeatures: entry.AdditionalFeatures,
		}
	}
	return catalog, nil
}

// Plan looks up a subscription plan by name
func (c *PlanCatalog) Plan(name string) (model.Subscription, bool) {
	plan, ok := c.plans[name]
	return plan, ok
}

// Names lists the catalog's plan names
func (c *PlanCatalog) Names() []string {
	names := make([]string, 0, len(c.plans))
	for name := range c.plans {
		names = append(names, name)
	}
	return names
}
