package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal_RoundedMeanWithinRange(t *testing.T) {
	for code := MinRating; code <= MaxRating; code++ {
		for character := MinRating; character <= MaxRating; character++ {
			for sat := MinRating; sat <= MaxRating; sat++ {
				total := ComputeTotal(code, character, sat)
				want := math.Round(float64(code+character+sat)/3*10) / 10
				require.InDelta(t, want, total, 1e-9, "code=%d character=%d sat=%d", code, character, sat)
				require.GreaterOrEqual(t, total, 1.0)
				require.LessOrEqual(t, total, 5.0)
			}
		}
	}
}

func TestComputeTotal_Examples(t *testing.T) {
	assert.Equal(t, 5.0, ComputeTotal(5, 5, 5))
	assert.Equal(t, 4.7, ComputeTotal(5, 5, 4))
	assert.Equal(t, 4.3, ComputeTotal(5, 4, 4))
	assert.Equal(t, 1.0, ComputeTotal(1, 1, 1))
}

func TestNormalize_DefaultsUnselectedRatings(t *testing.T) {
	in, err := ReviewInput{Name: "  Minh  ", Text: "  ok  "}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, "Minh", in.Name)
	assert.Equal(t, "ok", in.Text)
	assert.Equal(t, DefaultRating, in.Code)
	assert.Equal(t, DefaultRating, in.Character)
	assert.Equal(t, DefaultRating, in.Sat)
}

func TestNormalize_RejectsBlankName(t *testing.T) {
	_, err := ReviewInput{Name: "   ", Code: 3}.Normalize()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestNormalize_RejectsOutOfRangeRating(t *testing.T) {
	_, err := ReviewInput{Name: "Lan", Character: 6}.Normalize()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "character", verr.Field)

	_, err = ReviewInput{Name: "Lan", Sat: -1}.Normalize()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sat", verr.Field)
}

func TestNormalize_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("ư", MaxTextRunes+20)

	in, err := ReviewInput{Name: "Lan", Text: long}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, MaxTextRunes, len([]rune(in.Text)))
}

func TestNormalize_RejectsLongName(t *testing.T) {
	_, err := ReviewInput{Name: strings.Repeat("a", MaxNameRunes+1)}.Normalize()
	require.Error(t, err)
}

func TestNewReview_DerivesTotalAndTime(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	in, err := ReviewInput{Name: "Lan", Code: 4, Character: 5, Sat: 3, Text: "hay"}.Normalize()
	require.NoError(t, err)

	r := NewReview(in, "d_1_2", now)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "d_1_2", r.DeviceID)
	assert.Equal(t, 4.0, r.Total)
	assert.Equal(t, now.UnixMilli(), r.Time)
	assert.Equal(t, now.UTC(), r.CreatedAt())
}

func TestApply_PreservesIdentityAndAdvancesTime(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	original := NewReview(ReviewInput{Name: "Lan", Code: 5, Character: 5, Sat: 5}, "d_1_2", now)

	edited := original.Apply(ReviewInput{Name: "Lan B", Code: 1, Character: 2, Sat: 3, Text: "sửa"}, now)

	assert.Equal(t, original.ID, edited.ID)
	assert.Equal(t, original.DeviceID, edited.DeviceID)
	assert.Equal(t, "Lan B", edited.Name)
	assert.Equal(t, 2.0, edited.Total)
	assert.Greater(t, edited.Time, original.Time)

	later := edited.Apply(edited.Input(), now.Add(time.Minute))
	assert.Equal(t, now.Add(time.Minute).UnixMilli(), later.Time)
}
