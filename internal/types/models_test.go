package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfidencePercent(t *testing.T) {
	cases := map[float64]string{
		0.873: "87%",
		0.875: "88%",
		0.9:   "90%",
		0:     "0%",
		1:     "100%",
	}
	for in, want := range cases {
		require.Equal(t, want, ExtractionResult{Confidence: in}.ConfidencePercent(), "confidence %v", in)
	}
}

func TestGender(t *testing.T) {
	require.True(t, GenderMale.Valid())
	require.True(t, GenderUnknown.Valid())
	require.False(t, Gender("other").Valid())
	require.False(t, Gender("").Valid())

	require.Equal(t, "男性", GenderMale.Label())
	require.Equal(t, "女性", GenderFemale.Label())
	require.Equal(t, "不明", GenderUnknown.Label())
	require.Equal(t, "不明", Gender("").Label())
}
