// internal/models/catalog.go
package models

// The license catalog is fixed. Tiers are not user-created and the slice
// must not be mutated at runtime.
var licenseCatalog = []License{
	{
		ID:              "personal",
		Name:            "Personal Use",
		BasePrice:       0.01,
		DurationDays:    0,
		UsageClass:      UsageClassPersonal,
		Restrictions:    []string{"no_commercial_use", "no_resale"},
		Benefits:        []string{"view_full_content", "personal_remix"},
		RevenueSharePct: 5,
		Territory:       "global",
	},
	{
		ID:              "remix",
		Name:            "Remix License",
		BasePrice:       0.02,
		DurationDays:    180,
		UsageClass:      UsageClassBoth,
		Restrictions:    []string{"attribution_required"},
		Benefits:        []string{"view_full_content", "publish_remixes", "derivative_sales"},
		RevenueSharePct: 15,
		MaxUsage:        100,
		Territory:       "global",
	},
	{
		ID:              "commercial",
		Name:            "Commercial Use",
		BasePrice:       0.05,
		DurationDays:    365,
		UsageClass:      UsageClassCommercial,
		Restrictions:    []string{"attribution_required", "no_sublicensing"},
		Benefits:        []string{"view_full_content", "commercial_use", "publish_remixes"},
		RevenueSharePct: 10,
		Territory:       "global",
	},
	{
		ID:              "exclusive",
		Name:            "Exclusive Rights",
		BasePrice:       0.25,
		DurationDays:    0,
		UsageClass:      UsageClassBoth,
		Benefits:        []string{"view_full_content", "commercial_use", "publish_remixes", "exclusivity"},
		RevenueSharePct: 20,
		MaxUsage:        1,
		Territory:       "global",
	},
}

// LicenseCatalog returns a copy of the catalog.
func LicenseCatalog() []License {
	out := make([]License, len(licenseCatalog))
	copy(out, licenseCatalog)
	return out
}

// LicenseByID looks up a catalog tier, nil when the id is unknown.
// Returns a copy so callers cannot mutate the catalog.
func LicenseByID(id string) *License {
	for _, l := range licenseCatalog {
		if l.ID == id {
			tier := l
			return &tier
		}
	}
	return nil
}
