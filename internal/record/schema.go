package record

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Kind is the semantic type of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field describes one column of the record schema.
type Field struct {
	// Name is the CSV header, JSON key and SQL column name.
	Name string

	// Index is the 0-based CSV column position.
	Index int

	Kind Kind

	// Key marks objectId. Key fields are never defaulted.
	Key bool

	// Nullable reports whether the original model allowed the field to be absent.
	Nullable bool

	// Required marks string fields that must be non-empty on single-row create.
	Required bool

	// Default is the raw value substituted when the cell is empty.
	Default string

	// MaxLen is the maximum length in runes; 0 means unbounded.
	MaxLen int

	ptr func(*Record) any
}

// Set coerces raw into r's field. An empty raw value takes the field default.
// Returns a VALIDATION *Error if coercion fails.
func (f Field) Set(r *Record, raw string) error {
	if raw == "" {
		if f.Key {
			return NewValidationError(f.Name, "value is required")
		}
		raw = f.Default
	}

	switch p := f.ptr(r).(type) {
	case *string:
		*p = raw
	case *int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("invalid integer %q", raw), Field: f.Name, Err: err}
		}
		*p = n
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("invalid boolean %q", raw), Field: f.Name, Err: err}
		}
		*p = b
	case *Gender:
		g, err := ParseGender(raw)
		if err != nil {
			return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("invalid choice %q", raw), Field: f.Name, Err: err}
		}
		*p = g
	default:
		panic(fmt.Sprintf("record: field %s has unsupported type %T", f.Name, p))
	}
	return nil
}

// Format renders the field of r as a CSV cell.
func (f Field) Format(r Record) string {
	switch p := f.ptr(&r).(type) {
	case *string:
		return *p
	case *int64:
		return strconv.FormatInt(*p, 10)
	case *bool:
		if *p {
			return "True"
		}
		return "False"
	case *Gender:
		return string(*p)
	}
	panic(fmt.Sprintf("record: field %s has unsupported type", f.Name))
}

// Value returns the field of r as a SQL argument.
func (f Field) Value(r Record) any {
	switch p := f.ptr(&r).(type) {
	case *string:
		return *p
	case *int64:
		return *p
	case *bool:
		return *p
	case *Gender:
		return string(*p)
	}
	panic(fmt.Sprintf("record: field %s has unsupported type", f.Name))
}

// Dest returns a pointer to the field of r for use as a SQL scan target.
func (f Field) Dest(r *Record) any {
	return f.ptr(r)
}

// check enforces MaxLen and enum membership.
func (f Field) check(r Record) *Error {
	switch p := f.ptr(&r).(type) {
	case *string:
		if f.MaxLen > 0 && utf8.RuneCountInString(*p) > f.MaxLen {
			return &Error{
				Code:    ErrCodeValidation,
				Message: fmt.Sprintf("ensure this value has at most %d characters (it has %d)", f.MaxLen, utf8.RuneCountInString(*p)),
				Field:   f.Name,
			}
		}
	case *Gender:
		if !p.Valid() {
			return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("invalid choice %q", string(*p)), Field: f.Name}
		}
	}
	return nil
}

// Columns is the fixed positional schema, in CSV column order.
var Columns = indexed([]Field{
	keyField("objectId", func(r *Record) any { return &r.ObjectID }),
	boolField("isHighlight", func(r *Record) any { return &r.IsHighlight }),
	requiredString("accessionNumber", 50, func(r *Record) any { return &r.AccessionNumber }),
	intField("accessionYear", "0", false, func(r *Record) any { return &r.AccessionYear }),
	boolField("isPublicDomain", func(r *Record) any { return &r.IsPublicDomain }),
	stringField("primaryImage", 50, func(r *Record) any { return &r.PrimaryImage }),
	stringField("primaryImageSmall", 50, func(r *Record) any { return &r.PrimaryImageSmall }),
	stringField("additionalImages", 50, func(r *Record) any { return &r.AdditionalImages }),
	requiredString("department", 50, func(r *Record) any { return &r.Department }),
	requiredString("objectName", 50, func(r *Record) any { return &r.ObjectName }),
	stringField("title", 50, func(r *Record) any { return &r.Title }),
	stringField("culture", 50, func(r *Record) any { return &r.Culture }),
	stringField("period", 50, func(r *Record) any { return &r.Period }),
	stringField("dynasty", 50, func(r *Record) any { return &r.Dynasty }),
	stringField("reign", 50, func(r *Record) any { return &r.Reign }),
	stringField("portfolio", 50, func(r *Record) any { return &r.Portfolio }),
	stringField("artistRole", 50, func(r *Record) any { return &r.ArtistRole }),
	stringField("artistPrefix", 50, func(r *Record) any { return &r.ArtistPrefix }),
	stringField("artistDisplayName", 50, func(r *Record) any { return &r.ArtistDisplayName }),
	stringField("artistDisplayBio", 200, func(r *Record) any { return &r.ArtistDisplayBio }),
	stringField("artistSuffix", 50, func(r *Record) any { return &r.ArtistSuffix }),
	stringField("artistAlphaSort", 50, func(r *Record) any { return &r.ArtistAlphaSort }),
	stringField("artistNationality", 50, func(r *Record) any { return &r.ArtistNationality }),
	stringField("artistBeginDate", 50, func(r *Record) any { return &r.ArtistBeginDate }),
	stringField("artistEndDate", 50, func(r *Record) any { return &r.ArtistEndDate }),
	enumField("artistGender", func(r *Record) any { return &r.ArtistGender }),
	stringField("artistWikidata_URL", 50, func(r *Record) any { return &r.ArtistWikidataURL }),
	stringField("artistULAN_URL", 50, func(r *Record) any { return &r.ArtistULANURL }),
	stringField("objectDate", 50, func(r *Record) any { return &r.ObjectDate }),
	stringField("objectBeginDate", 50, func(r *Record) any { return &r.ObjectBeginDate }),
	stringField("objectEndDate", 50, func(r *Record) any { return &r.ObjectEndDate }),
	stringField("medium", 50, func(r *Record) any { return &r.Medium }),
	stringField("dimensions", 50, func(r *Record) any { return &r.Dimensions }),
	stringField("measurements", 50, func(r *Record) any { return &r.Measurements }),
	stringField("creditLine", 50, func(r *Record) any { return &r.CreditLine }),
	stringField("geographyType", 50, func(r *Record) any { return &r.GeographyType }),
	stringField("city", 50, func(r *Record) any { return &r.City }),
	stringField("state", 50, func(r *Record) any { return &r.State }),
	stringField("county", 50, func(r *Record) any { return &r.County }),
	stringField("country", 50, func(r *Record) any { return &r.Country }),
	stringField("region", 50, func(r *Record) any { return &r.Region }),
	stringField("subregion", 50, func(r *Record) any { return &r.Subregion }),
	stringField("locale", 50, func(r *Record) any { return &r.Locale }),
	stringField("locus", 50, func(r *Record) any { return &r.Locus }),
	stringField("excavation", 50, func(r *Record) any { return &r.Excavation }),
	stringField("river", 50, func(r *Record) any { return &r.River }),
	stringField("classification", 50, func(r *Record) any { return &r.Classification }),
	stringField("rightsAndReproduction", 50, func(r *Record) any { return &r.RightsAndReproduction }),
	stringField("linkResource", 50, func(r *Record) any { return &r.LinkResource }),
	stringField("metadataDate", 50, func(r *Record) any { return &r.MetadataDate }),
	stringField("repository", 50, func(r *Record) any { return &r.Repository }),
	stringField("objectURL", 50, func(r *Record) any { return &r.ObjectURL }),
	stringField("tags", 50, func(r *Record) any { return &r.Tags }),
	stringField("objectWikidata_URL", 50, func(r *Record) any { return &r.ObjectWikidataURL }),
	boolField("isTimelineWork", func(r *Record) any { return &r.IsTimelineWork }),
	intField("galleryNumber", "-1", true, func(r *Record) any { return &r.GalleryNumber }),
	intField("constituentID", "-1", true, func(r *Record) any { return &r.ConstituentID }),
	stringField("role", 50, func(r *Record) any { return &r.Role }),
	stringField("name", 50, func(r *Record) any { return &r.Name }),
	stringField("constituentULAN_URL", 50, func(r *Record) any { return &r.ConstituentULANURL }),
	stringField("constituentWikidata_URL", 50, func(r *Record) any { return &r.ConstituentWikidataURL }),
	enumField("gender", func(r *Record) any { return &r.Gender }),
})

var byName = func() map[string]Field {
	m := make(map[string]Field, len(Columns))
	for _, f := range Columns {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

// ColumnCount returns the number of schema columns.
func ColumnCount() int {
	return len(Columns)
}

// Header returns the field names in column order.
func Header() []string {
	names := make([]string, len(Columns))
	for i, f := range Columns {
		names[i] = f.Name
	}
	return names
}

func indexed(fields []Field) []Field {
	for i := range fields {
		fields[i].Index = i
	}
	return fields
}

func keyField(name string, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindInt, Key: true, ptr: ptr}
}

func boolField(name string, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindBool, Default: "false", ptr: ptr}
}

func intField(name, def string, nullable bool, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindInt, Nullable: nullable, Default: def, ptr: ptr}
}

func stringField(name string, maxLen int, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindString, Nullable: true, MaxLen: maxLen, ptr: ptr}
}

func requiredString(name string, maxLen int, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindString, Required: true, MaxLen: maxLen, ptr: ptr}
}

func enumField(name string, ptr func(*Record) any) Field {
	return Field{Name: name, Kind: KindEnum, Default: string(DefaultGender), MaxLen: 20, ptr: ptr}
}
