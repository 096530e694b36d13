package domain

// Gender values accepted by the name database. Empty means any.
const (
	GenderMasculine = "m"
	GenderFeminine  = "f"
	GenderAny       = ""
)

// GenerateRequest is the validated input for random name generation.
type GenerateRequest struct {
	Gender         string
	Usage          string
	Number         int
	IncludeSurname bool
	IncludeDetails bool
}

// NameData is a single name as returned to the browser.
type NameData struct {
	Name       string        `json:"name"`
	Usage      string        `json:"usage,omitempty"`
	Meaning    string        `json:"meaning,omitempty"`
	Etymology  string        `json:"etymology,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	OriginData *OriginResult `json:"originData,omitempty"`
}

type LookupRequest struct {
	Name  string
	Exact bool
}

type RelatedRequest struct {
	Name   string
	Usage  string
	Gender string
}

type OriginRequest struct {
	FirstName string
	LastName  string
}

// OriginResult is the reshaped first entry of an origin classification batch.
type OriginResult struct {
	CountryOrigin         string  `json:"countryOrigin"`
	CountryOriginAlt      string  `json:"countryOriginAlt,omitempty"`
	RegionOrigin          string  `json:"regionOrigin"`
	SubRegionOrigin       string  `json:"subRegionOrigin,omitempty"`
	ProbabilityCalibrated float64 `json:"probabilityCalibrated"`
	Score                 float64 `json:"score"`
}

// Usage is a cultural origin offered by the generation form.
type Usage struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}
