package category

import (
	"fmt"
)

// Category is the contest tier a contestant competes in, derived from grade.
type Category string

const (
	Primary Category = "Primary"
	Junior  Category = "Junior"
	Senior  Category = "Senior"
)

// UsernamePrefix is the contest identifier all usernames start with.
const UsernamePrefix = "CSMC"

// MaxSequence is the highest sequence number a 4-digit username can carry.
const MaxSequence = 9999

// ErrInvalidGrade is returned for grades outside 5-10. Upstream validation
// rejects these before the core sees them, so hitting this is a bug.
var ErrInvalidGrade = fmt.Errorf("invalid grade: must be between 5 and 10")

// FromGrade maps a grade level to its contest category.
// Grades 5-6 are Primary, 7-8 Junior, 9-10 Senior.
func FromGrade(grade int) (Category, error) {
	switch {
	case grade == 5 || grade == 6:
		return Primary, nil
	case grade == 7 || grade == 8:
		return Junior, nil
	case grade == 9 || grade == 10:
		return Senior, nil
	default:
		return "", ErrInvalidGrade
	}
}

// Code returns the single-letter code used in usernames and as the
// username_sequences primary key.
func (c Category) Code() string {
	switch c {
	case Primary:
		return "P"
	case Junior:
		return "J"
	default:
		return "S"
	}
}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	return c == Primary || c == Junior || c == Senior
}

// FormatUsername renders the canonical username for a category and sequence
// number, e.g. FormatUsername(Primary, 7) == "CSMC_P_0007". Sequences above
// 9999 widen past four digits; the allocator never issues them.
func FormatUsername(c Category, sequence int) string {
	return fmt.Sprintf("%s_%s_%04d", UsernamePrefix, c.Code(), sequence)
}
