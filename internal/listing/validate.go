package listing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationResult maps field names to the violation message for that field.
// An empty result means the draft may be submitted.
type ValidationResult map[string]string

// Valid reports whether no rule failed.
func (v ValidationResult) Valid() bool {
	return len(v) == 0
}

// Fields returns the violated field names.
func (v ValidationResult) Fields() []string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	return fields
}

// Validate checks every submission rule independently and collects all
// violations; it never short-circuits on the first failure.
func (d *Draft) Validate() ValidationResult {
	result := ValidationResult{}

	if strings.TrimSpace(d.Title) == "" {
		result["title"] = "title is required"
	}

	if strings.TrimSpace(d.Description) == "" {
		result["description"] = "description is required"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	switch {
	case err != nil:
		result["price"] = "price must be a number"
	case !price.IsPositive():
		result["price"] = "price must be greater than zero"
	}

	if len(d.persistedPhotos)+len(d.stagedPhotos) < 1 {
		result["photos"] = "at least one photo is required"
	}

	if d.Status != "" && !d.schema.Vocabulary.Contains(d.Status) {
		result["status"] = "status is not part of the configured vocabulary"
	}

	return result
}
