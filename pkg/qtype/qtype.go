// Package qtype maps the numeric question type codes found in embedded form
// payloads to semantic categories. The table is shared by extraction and fill
// so both sides always agree on what a question is.
package qtype

import "sort"

// Category is the semantic kind of a question.
type Category string

const (
	ShortAnswer    Category = "shortAnswer"
	Paragraph      Category = "paragraph"
	MultipleChoice Category = "multipleChoice"
	Dropdown       Category = "dropdown"
	Checkboxes     Category = "checkboxes"
	LinearScale    Category = "linearScale"
	Rating         Category = "rating"
	Grid           Category = "grid"
	Date           Category = "date"
	Time           Category = "time"
	Unknown        Category = "unknown"
)

// Type codes as they appear in slot 3 of the question descriptor.
const (
	CodeShortAnswer    = 0
	CodeParagraph      = 1
	CodeMultipleChoice = 2
	CodeDropdown       = 3
	CodeCheckboxes     = 4
	CodeLinearScale    = 5
	CodeRating         = 6
	CodeGrid           = 7
	CodeDate           = 9
	CodeTime           = 10
)

// table is never mutated after init. Accessors hand out copies.
var table = map[int]Category{
	CodeShortAnswer:    ShortAnswer,
	CodeParagraph:      Paragraph,
	CodeMultipleChoice: MultipleChoice,
	CodeDropdown:       Dropdown,
	CodeCheckboxes:     Checkboxes,
	CodeLinearScale:    LinearScale,
	CodeRating:         Rating,
	CodeGrid:           Grid,
	CodeDate:           Date,
	CodeTime:           Time,
}

// Classify returns the category for a type code. It is total: any code not in
// the table, negative ones included, yields Unknown.
func Classify(code int) Category {
	if c, ok := table[code]; ok {
		return c
	}
	return Unknown
}

// CodeOf returns the type code for a category, or -1 for Unknown and any
// category outside the table.
func CodeOf(c Category) int {
	for code, cat := range table {
		if cat == c {
			return code
		}
	}
	return -1
}

// Codes returns the mapped type codes in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Table returns a copy of the code to category mapping.
func Table() map[int]Category {
	out := make(map[int]Category, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// IsScale reports whether the category is answered with a single point on a
// numeric scale.
func (c Category) IsScale() bool {
	return c == LinearScale || c == Rating
}

// IsChoice reports whether the category carries a discrete list of options.
func (c Category) IsChoice() bool {
	switch c {
	case MultipleChoice, Dropdown, Checkboxes, LinearScale, Rating, Grid:
		return true
	}
	return false
}

// IsText reports whether the category is answered by free text.
func (c Category) IsText() bool {
	return c == ShortAnswer || c == Paragraph
}

// Fillable reports whether a filler exists for the category.
func (c Category) Fillable() bool {
	switch c {
	case ShortAnswer, Paragraph, MultipleChoice, Checkboxes, Dropdown, LinearScale, Rating:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
