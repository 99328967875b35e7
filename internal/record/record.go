package record

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Gender is the enumeration used by artistGender and gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// DefaultGender is substituted for empty enum values.
const DefaultGender = GenderMale

// Genders lists the allowed enum values in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender converts a raw cell to a Gender.
// Matching is case-insensitive. Empty input yields DefaultGender. The single
// letters m, f and o are accepted because older exports wrote "m" as the
// artistGender default.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultGender, nil
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	case "other", "o":
		return GenderOther, nil
	}
	return "", fmt.Errorf("invalid gender %q: must be one of %v", raw, Genders)
}

// Valid reports whether g is one of Genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Value implements driver.Valuer.
func (g Gender) Value() (driver.Value, error) {
	return string(g), nil
}

// Scan implements sql.Scanner.
func (g *Gender) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*g = DefaultGender
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan gender: unsupported type %T", src)
	}
	parsed, err := ParseGender(s)
	if err != nil {
		return fmt.Errorf("scan gender: %w", err)
	}
	*g = parsed
	return nil
}

// Record is one museum-object entry. JSON keys match the CSV field names.
type Record struct {
	ObjectID               int64  `json:"objectId"`
	IsHighlight            bool   `json:"isHighlight"`
	AccessionNumber        string `json:"accessionNumber"`
	AccessionYear          int64  `json:"accessionYear"`
	IsPublicDomain         bool   `json:"isPublicDomain"`
	PrimaryImage           string `json:"primaryImage"`
	PrimaryImageSmall      string `json:"primaryImageSmall"`
	AdditionalImages       string `json:"additionalImages"`
	Department             string `json:"department"`
	ObjectName             string `json:"objectName"`
	Title                  string `json:"title"`
	Culture                string `json:"culture"`
	Period                 string `json:"period"`
	Dynasty                string `json:"dynasty"`
	Reign                  string `json:"reign"`
	Portfolio              string `json:"portfolio"`
	ArtistRole             string `json:"artistRole"`
	ArtistPrefix           string `json:"artistPrefix"`
	ArtistDisplayName      string `json:"artistDisplayName"`
	ArtistDisplayBio       string `json:"artistDisplayBio"`
	ArtistSuffix           string `json:"artistSuffix"`
	ArtistAlphaSort        string `json:"artistAlphaSort"`
	ArtistNationality      string `json:"artistNationality"`
	ArtistBeginDate        string `json:"artistBeginDate"`
	ArtistEndDate          string `json:"artistEndDate"`
	ArtistGender           Gender `json:"artistGender"`
	ArtistWikidataURL      string `json:"artistWikidata_URL"`
	ArtistULANURL          string `json:"artistULAN_URL"`
	ObjectDate             string `json:"objectDate"`
	ObjectBeginDate        string `json:"objectBeginDate"`
	ObjectEndDate          string `json:"objectEndDate"`
	Medium                 string `json:"medium"`
	Dimensions             string `json:"dimensions"`
	Measurements           string `json:"measurements"`
	CreditLine             string `json:"creditLine"`
	GeographyType          string `json:"geographyType"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	County                 string `json:"county"`
	Country                string `json:"country"`
	Region                 string `json:"region"`
	Subregion              string `json:"subregion"`
	Locale                 string `json:"locale"`
	Locus                  string `json:"locus"`
	Excavation             string `json:"excavation"`
	River                  string `json:"river"`
	Classification         string `json:"classification"`
	RightsAndReproduction  string `json:"rightsAndReproduction"`
	LinkResource           string `json:"linkResource"`
	MetadataDate           string `json:"metadataDate"`
	Repository             string `json:"repository"`
	ObjectURL              string `json:"objectURL"`
	Tags                   string `json:"tags"`
	ObjectWikidataURL      string `json:"objectWikidata_URL"`
	IsTimelineWork         bool   `json:"isTimelineWork"`
	GalleryNumber          int64  `json:"galleryNumber"`
	ConstituentID          int64  `json:"constituentID"`
	Role                   string `json:"role"`
	Name                   string `json:"name"`
	ConstituentULANURL     string `json:"constituentULAN_URL"`
	ConstituentWikidataURL string `json:"constituentWikidata_URL"`
	Gender                 Gender `json:"gender"`
}

// New returns a record with every field at its default value.
func New(objectID int64) Record {
	r := Record{ObjectID: objectID}
	for _, f := range Columns {
		if f.Key {
			continue
		}
		// Defaults are valid for their own field.
		_ = f.Set(&r, "")
	}
	return r
}

// Normalize puts every text field in CleanText form and replaces empty enum
// values with DefaultGender. Invalid enum values are left for Validate to
// reject. It is idempotent.
func (r *Record) Normalize() {
	for _, f := range Columns {
		if p, ok := f.ptr(r).(*string); ok {
			*p = CleanText(*p)
		}
	}
	if r.ArtistGender == "" {
		r.ArtistGender = DefaultGender
	}
	if r.Gender == "" {
		r.Gender = DefaultGender
	}
}

// Validate checks objectId, string lengths and enum membership.
// Returns a VALIDATION *Error naming the first failing field.
func (r Record) Validate() error {
	if r.ObjectID <= 0 {
		return &Error{
			Code:     ErrCodeValidation,
			Message:  "objectId must be a positive integer",
			Field:    "objectId",
			ObjectID: r.ObjectID,
		}
	}
	for _, f := range Columns {
		if err := f.check(r); err != nil {
			err.ObjectID = r.ObjectID
			return err
		}
	}
	return nil
}

// String returns the objectId, matching how records are listed.
func (r Record) String() string {
	return fmt.Sprintf("%d", r.ObjectID)
}
