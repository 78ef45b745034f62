package domain

import dErrors "nammasev/pkg/domain-errors"

// Category is the closed set of civic complaint categories.
type Category string

const (
	CategoryRoadInfrastructure Category = "Road & Infrastructure"
	CategoryWaterSupply        Category = "Water Supply"
	CategoryElectricity        Category = "Electricity"
	CategorySanitation         Category = "Sanitation"
	CategoryStreetLights       Category = "Street Lights"
	CategoryDrainage           Category = "Drainage"
	CategoryPublicHealth       Category = "Public Health"
	CategoryEncroachment       Category = "Encroachment"
	CategoryNoisePollution     Category = "Noise Pollution"
	CategoryOther              Category = "Other"
)

// estimatedResolutionDays is the service-level expectation per category,
// stamped onto complaints at submission for citizen-facing ETAs.
var estimatedResolutionDays = map[Category]int{
	CategoryRoadInfrastructure: 15,
	CategoryWaterSupply:        3,
	CategoryElectricity:        2,
	CategorySanitation:         5,
	CategoryStreetLights:       7,
	CategoryDrainage:           10,
	CategoryPublicHealth:       5,
	CategoryEncroachment:       20,
	CategoryNoisePollution:     7,
	CategoryOther:              10,
}

// Categories returns the allowed set in a stable order, for validation
// messages and client pick lists.
func Categories() []Category {
	return []Category{
		CategoryRoadInfrastructure,
		CategoryWaterSupply,
		CategoryElectricity,
		CategorySanitation,
		CategoryStreetLights,
		CategoryDrainage,
		CategoryPublicHealth,
		CategoryEncroachment,
		CategoryNoisePollution,
		CategoryOther,
	}
}

// ParseCategory constructs a Category from external input.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	c := Category(s)
	if !c.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid category %q", s)
	}
	return c, nil
}

// IsValid checks membership in the closed category set.
func (c Category) IsValid() bool {
	_, ok := estimatedResolutionDays[c]
	return ok
}

// EstimatedResolutionDays returns the expected days-to-resolution for the
// category.
func (c Category) EstimatedResolutionDays() int {
	if days, ok := estimatedResolutionDays[c]; ok {
		return days
	}
	return estimatedResolutionDays[CategoryOther]
}
