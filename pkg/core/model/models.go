package model

// LastResortPriority is the priority given to every last resort location.
// It sits above any priority a weighted draw can produce so those locations are
// always attempted last.
const LastResortPriority = 999

// Location represents a lending location that can be asked to fill a request
type Location struct {
	Code         string `yaml:"code" json:"code" validate:"required"`
	ReportCode   int    `yaml:"reportCode" json:"reportCode"`
	Name         string `yaml:"name,omitempty" json:"name,omitempty"`
	Weight       Weight `yaml:"weight" json:"weight" validate:"gte=0,lte=10000000000000"`
	IsLastResort bool   `yaml:"isLastResort,omitempty" json:"isLastResort"`
}

// PrioritizedLocation is a location tagged with the order it should be attempted in.
// Lower priorities are attempted first.
type PrioritizedLocation struct {
	Location Location `json:"location"`
	Priority int      `json:"priority"`
}

// IsLastResort reports whether the location was carved out of the weighted draw
func (p PrioritizedLocation) IsLastResort() bool {
	return p.Priority == LastResortPriority
}

// AddedLocation is a location added by hand after a route was planned.
// It never takes part in the weighted draw.
type AddedLocation struct {
	LocationCode string `json:"locationCode"`
	ReportCode   int    `json:"reportCode"`
}

// Codes returns the location codes in order (useful for logging)
func Codes(locations []Location) []string {
	codes := make([]string, len(locations))
	for i, loc := range locations {
		codes[i] = loc.Code
	}
	return codes
}

// PrioritizedCodes returns the location codes of prioritized locations in order
func PrioritizedCodes(locations []PrioritizedLocation) []string {
	codes := make([]string, len(locations))
	for i, loc := range locations {
		codes[i] = loc.Location.Code
	}
	return codes
}
