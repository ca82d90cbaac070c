package models

// Course represents a course offered in a term.
type Course struct {
	ID         int64    `json:"id" db:"id"`
	Code       string   `json:"code" db:"code"` // department + number, e.g. CMSC131
	Title      string   `json:"title" db:"title"`
	Credits    int      `json:"credits" db:"credits"`
	Categories []string `json:"categories,omitempty"` // requirement categories the course satisfies
}

// InCategory reports whether the course satisfies the given requirement category
func (c *Course) InCategory(code string) bool {
	for _, cat := range c.Categories {
		if cat == code {
			return true
		}
	}
	return false
}
