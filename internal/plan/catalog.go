// Package plan holds the subscription plan catalog: per-tier pricing and
// capacity defaults that a client's custom overrides can supersede.
package plan

import "github.com/Rafuego/symphony-v3/internal/models"

type Plan struct {
	Name             string `json:"name"`
	Tier             string `json:"tier"`
	DefaultPrice     int    `json:"defaultPrice"`
	DefaultMaxActive int    `json:"defaultMaxActive"`
	DefaultDesigners string `json:"defaultDesigners"`
	Turnaround       string `json:"turnaround"`
}

// Catalog is built once at startup and never mutated after.
type Catalog struct {
	plans map[string]Plan
}

func DefaultCatalog() *Catalog {
	return &Catalog{plans: map[string]Plan{
		"launch": {
			Name:             "Launch",
			Tier:             "EARLY-STAGE STARTUPS",
			DefaultPrice:     2000,
			DefaultMaxActive: 1,
			DefaultDesigners: "1",
			Turnaround:       "24-48hr",
		},
		"growth": {
			Name:             "Growth",
			Tier:             "SEED TO SERIES B",
			DefaultPrice:     3500,
			DefaultMaxActive: 3,
			DefaultDesigners: "2",
			Turnaround:       "24-48hr",
		},
		"scale": {
			Name:             "Scale",
			Tier:             "ENTERPRISE & BEYOND",
			DefaultPrice:     5000,
			DefaultMaxActive: 5,
			DefaultDesigners: "3-4",
			Turnaround:       "48-72hr",
		},
	}}
}

// Lookup returns the plan for a tag and whether the tag is known.
func (c *Catalog) Lookup(tag string) (Plan, bool) {
	p, ok := c.plans[tag]
	return p, ok
}

// EffectiveCapacity is the admission limit for a client: the custom override
// when set and positive, else the plan default. An unrecognized plan tag
// falls back to 1 rather than failing closed.
func (c *Catalog) EffectiveCapacity(cl *models.Client) int {
	if cl.CustomMaxActive != nil && *cl.CustomMaxActive > 0 {
		return *cl.CustomMaxActive
	}
	if p, ok := c.plans[cl.Plan]; ok && p.DefaultMaxActive > 0 {
		return p.DefaultMaxActive
	}
	return 1
}

func (c *Catalog) EffectivePrice(cl *models.Client) int {
	if cl.CustomPrice != nil && *cl.CustomPrice > 0 {
		return *cl.CustomPrice
	}
	if p, ok := c.plans[cl.Plan]; ok {
		return p.DefaultPrice
	}
	return 0
}

func (c *Catalog) EffectiveDesigners(cl *models.Client) string {
	if cl.CustomDesigners != nil && *cl.CustomDesigners != "" {
		return *cl.CustomDesigners
	}
	if p, ok := c.plans[cl.Plan]; ok {
		return p.DefaultDesigners
	}
	return ""
}
