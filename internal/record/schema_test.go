package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_FixedOrder(t *testing.T) {
	want := []string{
		"objectId", "isHighlight", "accessionNumber", "accessionYear", "isPublicDomain",
		"primaryImage", "primaryImageSmall", "additionalImages", "department", "objectName",
		"title", "culture", "period", "dynasty", "reign", "portfolio", "artistRole",
		"artistPrefix", "artistDisplayName", "artistDisplayBio", "artistSuffix",
		"artistAlphaSort", "artistNationality", "artistBeginDate", "artistEndDate",
		"artistGender", "artistWikidata_URL", "artistULAN_URL", "objectDate",
		"objectBeginDate", "objectEndDate", "medium", "dimensions", "measurements",
		"creditLine", "geographyType", "city", "state", "county", "country", "region",
		"subregion", "locale", "locus", "excavation", "river", "classification",
		"rightsAndReproduction", "linkResource", "metadataDate", "repository", "objectURL",
		"tags", "objectWikidata_URL", "isTimelineWork", "galleryNumber", "constituentID",
		"role", "name", "constituentULAN_URL", "constituentWikidata_URL", "gender",
	}

	assert.Equal(t, want, Header())
	assert.Equal(t, 62, ColumnCount())
	for i, f := range Columns {
		assert.Equal(t, i, f.Index, "field %s", f.Name)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		nullable bool
		def      string
		maxLen   int
	}{
		{"objectId", KindInt, false, "", 0},
		{"isHighlight", KindBool, false, "false", 0},
		{"accessionYear", KindInt, false, "0", 0},
		{"title", KindString, true, "", 50},
		{"artistDisplayBio", KindString, true, "", 200},
		{"artistGender", KindEnum, false, "male", 20},
		{"galleryNumber", KindInt, true, "-1", 0},
		{"constituentID", KindInt, true, "-1", 0},
		{"gender", KindEnum, false, "male", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.nullable, f.Nullable)
			assert.Equal(t, tt.def, f.Default)
			assert.Equal(t, tt.maxLen, f.MaxLen)
		})
	}

	_, ok := Lookup("objectID")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestField_SetDefaults(t *testing.T) {
	var r Record
	for _, f := range Columns {
		if f.Key {
			continue
		}
		require.NoError(t, f.Set(&r, ""), f.Name)
	}

	assert.Equal(t, "", r.Title)
	assert.Equal(t, int64(-1), r.GalleryNumber)
	assert.Equal(t, int64(-1), r.ConstituentID)
	assert.Equal(t, int64(0), r.AccessionYear)
	assert.Equal(t, GenderMale, r.ArtistGender)
	assert.Equal(t, GenderMale, r.Gender)
	assert.False(t, r.IsHighlight)
}

func TestField_SetKeyRequired(t *testing.T) {
	f, _ := Lookup("objectId")
	var r Record

	err := f.Set(&r, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.NoError(t, f.Set(&r, "42"))
	assert.Equal(t, int64(42), r.ObjectID)
}

func TestField_SetCoercion(t *testing.T) {
	tests := []struct {
		field   string
		raw     string
		wantErr bool
	}{
		{"isHighlight", "True", false},
		{"isHighlight", "false", false},
		{"isHighlight", "1", false},
		{"isHighlight", "yes please", true},
		{"accessionYear", "1979", false},
		{"accessionYear", "19x9", true},
		{"galleryNumber", "774", false},
		{"artistGender", "Female", false},
		{"artistGender", "m", false},
		{"gender", "unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.field+"="+tt.raw, func(t *testing.T) {
			f, ok := Lookup(tt.field)
			require.True(t, ok)
			var r Record
			err := f.Set(&r, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				var e *Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.field, e.Field)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestField_FormatRoundTrip(t *testing.T) {
	r := New(7)
	r.IsHighlight = true
	r.Title = "Bust of a Man"
	r.ArtistGender = GenderFemale
	r.GalleryNumber = 774

	var back Record
	for _, f := range Columns {
		require.NoError(t, f.Set(&back, f.Format(r)), f.Name)
	}
	assert.Equal(t, r, back)
}

func TestNew_AllDefaults(t *testing.T) {
	r := New(3)
	assert.Equal(t, int64(3), r.ObjectID)
	assert.Equal(t, int64(-1), r.GalleryNumber)
	assert.Equal(t, GenderMale, r.Gender)
	require.NoError(t, r.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("non-positive id", func(t *testing.T) {
		r := New(0)
		err := r.Validate()
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("too long", func(t *testing.T) {
		r := New(1)
		r.Title = strings.Repeat("a", 51)
		err := r.Validate()
		require.Error(t, err)
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "title", e.Field)
		assert.Equal(t, int64(1), e.ObjectID)
	})

	t.Run("bio allows 200 runes", func(t *testing.T) {
		r := New(1)
		r.ArtistDisplayBio = strings.Repeat("é", 200)
		assert.NoError(t, r.Validate())
	})

	t.Run("bad enum", func(t *testing.T) {
		r := New(1)
		r.Gender = "unknown"
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field=gender")
	})
}

func TestNormalize(t *testing.T) {
	r := Record{ObjectID: 1}
	r.Normalize()
	assert.Equal(t, GenderMale, r.ArtistGender)
	assert.Equal(t, GenderMale, r.Gender)

	r.Gender = GenderOther
	r.Normalize()
	assert.Equal(t, GenderOther, r.Gender)
}

func TestGender_Scan(t *testing.T) {
	var g Gender
	require.NoError(t, g.Scan("female"))
	assert.Equal(t, GenderFemale, g)

	require.NoError(t, g.Scan([]byte("OTHER")))
	assert.Equal(t, GenderOther, g)

	require.NoError(t, g.Scan(nil))
	assert.Equal(t, GenderMale, g)

	assert.Error(t, g.Scan(42))
	assert.Error(t, g.Scan("robot"))
}
