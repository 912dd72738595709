// Package model provides data models for the tutor-x service.
package model

import "strings"

// Category is the pedagogical type of a student question.
type Category string

const (
	CategoryKnowledge  Category = "KNOWLEDGE"
	CategoryReasoning  Category = "REASONING"
	CategoryCritical   Category = "CRITICAL"
	CategoryCreative   Category = "CREATIVE"
	CategoryReflection Category = "REFLECTION"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryKnowledge,
	CategoryReasoning,
	CategoryCritical,
	CategoryCreative,
	CategoryReflection,
}

// ParseCategory matches s against the five categories after trimming and
// upper-casing. Anything else yields (CategoryKnowledge, false).
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c.IsValid() {
		return c, true
	}
	return CategoryKnowledge, false
}

// IsValid reports whether c is one of the five categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
