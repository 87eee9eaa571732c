package model

// Grade is a Goldmine-style condition code for vinyl or sleeve.
type Grade string

const (
	GradeMint     Grade = "M"
	GradeNearMint Grade = "NM"
	GradeVGPlus   Grade = "VG+"
	GradeVG       Grade = "VG"
	GradeGPlus    Grade = "G+"
	GradeGood     Grade = "G"
	GradeFair     Grade = "F"
	GradePoor     Grade = "P"
)

// GradeScale lists every grade from best to worst.
var GradeScale = []Grade{
	GradeMint, GradeNearMint, GradeVGPlus, GradeVG,
	GradeGPlus, GradeGood, GradeFair, GradePoor,
}

// Rank returns the grade's position on the scale, 0 for Mint down to 7 for
// Poor. Unknown grades return -1.
func (g Grade) Rank() int {
	for i, v := range GradeScale {
		if v == g {
			return i
		}
	}
	return -1
}

func (g Grade) Valid() bool {
	return g.Rank() >= 0
}

// ParseGrade normalizes common spellings ("Near Mint", "VG+") to a Grade.
// Returns "" when the input doesn't map to the scale.
func ParseGrade(s string) Grade {
	switch s {
	case "M", "Mint", "mint":
		return GradeMint
	case "NM", "NM-", "Near Mint", "Near Mint (NM or M-)", "near mint":
		return GradeNearMint
	case "VG+", "Very Good Plus", "Very Good Plus (VG+)":
		return GradeVGPlus
	case "VG", "Very Good", "Very Good (VG)":
		return GradeVG
	case "G+", "Good Plus", "Good Plus (G+)":
		return GradeGPlus
	case "G", "Good", "Good (G)":
		return GradeGood
	case "F", "Fair", "Fair (F)":
		return GradeFair
	case "P", "Poor", "Poor (P)":
		return GradePoor
	}
	return ""
}
