package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var plansYAML []byte

type PlanSpec struct {
	Code              string `yaml:"code"`
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	Price             int64  `yaml:"price"`
	Currency          string `yaml:"currency"`
	VisibilityDays    int    `yaml:"visibility_days"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	Rank              int    `yaml:"rank"`
}

// PlanCatalog returns the plans compiled into the binary.
func PlanCatalog() ([]PlanSpec, error) {
	return ParsePlans(plansYAML)
}

func ParsePlans(data []byte) ([]PlanSpec, error) {
	var doc struct {
		Plans []PlanSpec `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Plans))
	for _, p := range doc.Plans {
		if p.Code == "" {
			return nil, fmt.Errorf("parse plan catalog: plan without code")
		}
		if seen[p.Code] {
			return nil, fmt.Errorf("parse plan catalog: duplicate plan %q", p.Code)
		}
		if p.Price < 0 || p.VisibilityDays <= 0 {
			return nil, fmt.Errorf("parse plan catalog: plan %q has invalid price or visibility", p.Code)
		}
		seen[p.Code] = true
	}
	return doc.Plans, nil
}
