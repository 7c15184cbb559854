// Package constants holds the fixed vocabulary used to describe
// antibody/antigen sequence data: special tokens, table column names and the
// canonical amino-acid alphabet.
package constants

// Column names.
const (
	AbAgComplexCol   = "ab_ag_complex"
	AntigenCol       = "antigen"
	VariableHeavyCol = "fv_heavy"
	VariableLightCol = "fv_light"
)

// Tokens.
const (
	AntigenComplexToken     = "[AG]"
	VariableHeavyChainToken = "[VH]"
	VariableLightChainToken = "[VL]"
	AlignmentGapToken       = "-"
	ComplexSepToken         = "."
)

// canonAminoAcids is ordered alphabetically by one-letter code.
var canonAminoAcids = [...]string{
	"A", "C", "D", "E", "F", "G", "H", "I", "K", "L",
	"M", "N", "P", "Q", "R", "S", "T", "V", "W", "Y",
}

var nullTokens = [...]string{"<null_1>"}

// CanonAminoAcids returns the 20 canonical amino acids. The slice is a fresh
// copy on every call.
func CanonAminoAcids() []string {
	out := make([]string, len(canonAminoAcids))
	copy(out, canonAminoAcids[:])
	return out
}

// NullTokens returns the placeholder tokens for missing sequence content.
func NullTokens() []string {
	out := make([]string, len(nullTokens))
	copy(out, nullTokens[:])
	return out
}

// IsCanonAminoAcid reports whether r is one of the canonical residues.
func IsCanonAminoAcid(r rune) bool {
	for _, aa := range canonAminoAcids {
		if aa[0] == byte(r) {
			return true
		}
	}
	return false
}

// SpecialTokens returns every non-residue token, chain markers first.
func SpecialTokens() []string {
	out := []string{
		VariableHeavyChainToken,
		VariableLightChainToken,
		AntigenComplexToken,
		AlignmentGapToken,
		ComplexSepToken,
	}
	return append(out, nullTokens[:]...)
}
