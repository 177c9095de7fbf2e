package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MaxCategories bounds how many tags a single article may carry.
const MaxCategories = 2

// CategoryVocabulary is the closed set of tags an article may be filed under.
var CategoryVocabulary = []string{
	"bioprinting",
	"scaffolds",
	"implants",
	"tissue engineering",
	"drug delivery",
	"prosthetics",
	"biomaterials",
	"hydrogels",
	"stem cells",
	"bone regeneration",
	"cartilage",
	"vascularization",
	"organ-on-chip",
	"surgical planning",
	"dental",
	"imaging",
	"regulatory",
}

// IsKnownCategory reports whether the tag belongs to the vocabulary.
func IsKnownCategory(tag string) bool {
	for _, known := range CategoryVocabulary {
		if known == tag {
			return true
		}
	}
	return false
}

// StringList stores a slice of strings as a JSON-encoded TEXT column so the
// same model works against Postgres and SQLite.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(value string) bool {
	for _, item := range l {
		if item == value {
			return true
		}
	}
	return false
}

// Article is one immutable knowledge-base submission. The DOI is the unique
// identifier; the title is unique as well. Records are never updated or
// deleted through the API.
type Article struct {
	ID                  string     `db:"id" json:"id"`
	DOI                 string     `db:"doi" json:"doi"`
	Link                string     `db:"link" json:"link"`
	Title               string     `db:"title" json:"title"`
	Year                int        `db:"year" json:"year"`
	Categories          StringList `db:"categories" json:"category"`
	ProblemDescription  string     `db:"problem_description" json:"problem_description"`
	SolutionDescription string     `db:"solution_description" json:"solution_description"`
	Result              string     `db:"result" json:"result"`
	Problems            string     `db:"problems" json:"problems"`
	AdditionalNotes     string     `db:"additional_notes" json:"additional_notes,omitempty"`
	AdditionDate        time.Time  `db:"addition_date" json:"addition_date"`
	SubmittedBy         string     `db:"submitted_by" json:"submitted_by"`
}
