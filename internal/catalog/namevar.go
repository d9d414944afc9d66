package catalog

import (
	"regexp"
	"strings"
)

// Raw supplier catalog rows arrive with variation tokens embedded in the
// product name ("DETERJAN 4 LT LAVANTA *6"). ExtractVariations strips and
// classifies them so the base name can be matched against the catalog.

type VariationKind string

const (
	VarSize      VariationKind = "size"
	VarType      VariationKind = "type"
	VarScent     VariationKind = "scent"
	VarPackaging VariationKind = "packaging"
	VarMaterial  VariationKind = "material"
)

// kindPriority fixes the order variations are reported in, independent of
// where the tokens sat in the raw name.
var kindPriority = []VariationKind{VarSize, VarType, VarScent, VarPackaging, VarMaterial}

type Variation struct {
	Kind  VariationKind `json:"kind"`
	Value string        `json:"value"`
}

type NameParts struct {
	BaseName   string      `json:"base_name"`
	Variations []Variation `json:"variations,omitempty"`
}

var (
	sizeJoined = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(LT|L|ML|CL|KG|GR|G)$`)
	sizeNumber = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	packCount  = regexp.MustCompile(`^[*X](\d+)$|^(\d+)'?L[IİUÜ]$`)
)

var sizeUnits = map[string]bool{
	"LT": true, "L": true, "ML": true, "CL": true,
	"KG": true, "GR": true, "G": true,
}

var typeWords = map[string]bool{
	"SIVI": true, "TOZ": true, "JEL": true, "KREM": true,
	"SPREY": true, "KÖPÜK": true, "TABLET": true,
}

var scentWords = map[string]bool{
	"LIMON": true, "LİMON": true, "LAVANTA": true, "GÜL": true,
	"ÇAM": true, "VANİLYA": true, "OKYANUS": true, "BAHAR": true,
}

var materialWords = map[string]bool{
	"PLASTİK": true, "CAM": true, "METAL": true,
	"KARTON": true, "KAĞIT": true, "BAMBU": true,
}

// ExtractVariations is a deterministic single pass over the name's tokens.
// The first match per category wins; a second size-like token stays in the
// base name once one size is captured. Matched tokens are removed from the
// base name; remaining tokens keep their order.
func ExtractVariations(raw string) NameParts {
	tokens := strings.Fields(strings.TrimSpace(raw))
	found := map[VariationKind]string{}
	var base []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		up := strings.ToUpper(tok)

		// size: "4 LT" as two tokens, or joined "4LT"
		if _, have := found[VarSize]; !have {
			if sizeNumber.MatchString(up) && i+1 < len(tokens) && sizeUnits[strings.ToUpper(tokens[i+1])] {
				found[VarSize] = up + " " + strings.ToUpper(tokens[i+1])
				i++
				continue
			}
			if m := sizeJoined.FindStringSubmatch(up); m != nil {
				found[VarSize] = m[1] + " " + m[2]
				continue
			}
		}

		if _, have := found[VarType]; !have && typeWords[up] {
			found[VarType] = up
			continue
		}

		if _, have := found[VarScent]; !have && scentWords[up] {
			found[VarScent] = up
			continue
		}

		// packaging: "*6", "X6", "6'LI"
		if _, have := found[VarPackaging]; !have {
			if m := packCount.FindStringSubmatch(up); m != nil {
				count := m[1]
				if count == "" {
					count = m[2]
				}
				found[VarPackaging] = count
				continue
			}
		}

		if _, have := found[VarMaterial]; !have && materialWords[up] {
			found[VarMaterial] = up
			continue
		}

		base = append(base, tok)
	}

	parts := NameParts{BaseName: strings.Join(base, " ")}
	for _, k := range kindPriority {
		if v, ok := found[k]; ok {
			parts.Variations = append(parts.Variations, Variation{Kind: k, Value: v})
		}
	}
	return parts
}
