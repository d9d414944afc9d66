package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVariations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		vars []Variation
	}{
		{
			name: "plain name passes through",
			raw:  "Amasya Elması",
			base: "Amasya Elması",
		},
		{
			name: "two-token size",
			raw:  "DETERJAN 4 LT",
			base: "DETERJAN",
			vars: []Variation{{Kind: VarSize, Value: "4 LT"}},
		},
		{
			name: "joined size token",
			raw:  "SÜT 500ML",
			base: "SÜT",
			vars: []Variation{{Kind: VarSize, Value: "500 ML"}},
		},
		{
			name: "packaging star count",
			raw:  "SU 1 LT *6",
			base: "SU",
			vars: []Variation{
				{Kind: VarSize, Value: "1 LT"},
				{Kind: VarPackaging, Value: "6"},
			},
		},
		{
			name: "full mix reports in fixed priority order",
			raw:  "SABUN LAVANTA SIVI 2 LT *4 PLASTİK",
			base: "SABUN",
			vars: []Variation{
				{Kind: VarSize, Value: "2 LT"},
				{Kind: VarType, Value: "SIVI"},
				{Kind: VarScent, Value: "LAVANTA"},
				{Kind: VarPackaging, Value: "4"},
				{Kind: VarMaterial, Value: "PLASTİK"},
			},
		},
		{
			name: "second size token stays in base name",
			raw:  "PEYNİR 1 KG 500 GR",
			base: "PEYNİR 500 GR",
			vars: []Variation{{Kind: VarSize, Value: "1 KG"}},
		},
		{
			name: "apostrophe packaging",
			raw:  "KOLONYA 6'LI",
			base: "KOLONYA",
			vars: []Variation{{Kind: VarPackaging, Value: "6"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariations(tt.raw)
			assert.Equal(t, tt.base, got.BaseName)
			assert.Equal(t, tt.vars, got.Variations)
		})
	}
}

func TestExtractVariationsIsDeterministic(t *testing.T) {
	raw := "ŞAMPUAN 400 ML LİMON *3"
	first := ExtractVariations(raw)
	second := ExtractVariations(raw)
	require.Equal(t, first, second)
}
