package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tags is a set of free-form context labels attached to a card. It is kept
// sorted and de-duplicated, and is persisted as a JSON array.
type Tags []string

// NewTags normalizes the given labels into a Tags set. Blank labels are dropped.
func NewTags(labels ...string) Tags {
	seen := make(map[string]struct{}, len(labels))
	tags := make(Tags, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		tags = append(tags, l)
	}
	sort.Strings(tags)
	return tags
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}

	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}

	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return fmt.Errorf("invalid tags payload: %w", err)
	}
	*t = NewTags(labels...)
	return nil
}
