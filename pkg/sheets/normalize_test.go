package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  academic year ": "Academic_Year",
		"Course Title":     "Course_Title",
		"INDEXNUMBER":      "Indexnumber",
		"Ca":               "Ca",
		"status":           "Status",
		"course_title":     "Course_Title",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), "input %q", in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "dr.smith", Fold("  Dr.SMITH "))
	assert.Equal(t, Fold("jdoe"), Fold(" JDoe "))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "A", columnLabel(1))
	assert.Equal(t, "Z", columnLabel(26))
	assert.Equal(t, "AA", columnLabel(27))
	assert.Equal(t, "AZ", columnLabel(52))
}
