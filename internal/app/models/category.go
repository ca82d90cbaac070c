package models

// RequirementCategories is the fixed set of general education codes a course request may
// name instead of a concrete course.
var RequirementCategories = []string{
	"FSAW", "FSAR", "FSMA", "FSOC", "FSPW",
	"DSHS", "DSHU", "DSNS", "DSNL", "DSSP",
	"DVCC", "DVUP", "SCIS",
}

// IsRequirementCategory reports whether code is one of RequirementCategories
func IsRequirementCategory(code string) bool {
	for _, c := range RequirementCategories {
		if c == code {
			return true
		}
	}
	return false
}
