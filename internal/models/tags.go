package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MaxTagLength bounds a single tag.
const MaxTagLength = 50

// TagSet is a sorted set of lower-case tags. It is persisted comma-joined,
// so a tag can never contain a comma.
type TagSet []string

// NewTagSet normalizes tags: trims, lower-cases, drops empties and
// duplicates, and sorts. Tags containing a comma or longer than
// MaxTagLength are rejected.
func NewTagSet(tags ...string) (TagSet, error) {
	seen := make(map[string]bool, len(tags))
	set := make(TagSet, 0, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			continue
		}
		if strings.Contains(tag, ",") {
			return nil, fmt.Errorf("tag %q must not contain a comma", raw)
		}
		if len(tag) > MaxTagLength {
			return nil, fmt.Errorf("tag %q is longer than %d characters", raw, MaxTagLength)
		}
		seen[tag] = true
		set = append(set, tag)
	}
	sort.Strings(set)
	return set, nil
}

// ParseTagList splits a comma-joined list into a TagSet.
func ParseTagList(s string) (TagSet, error) {
	if strings.TrimSpace(s) == "" {
		return TagSet{}, nil
	}
	return NewTagSet(strings.Split(s, ",")...)
}

// Contains reports whether tag is in the set.
func (t TagSet) Contains(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	i := sort.SearchStrings(t, tag)
	return i < len(t) && t[i] == tag
}

// String joins the tags with commas.
func (t TagSet) String() string {
	return strings.Join(t, ",")
}

// MarshalJSON always encodes an array, never null.
func (t TagSet) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON decodes an array of strings and normalizes it.
func (t *TagSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set, err := NewTagSet(raw...)
	if err != nil {
		return err
	}
	*t = set
	return nil
}

// Value implements driver.Valuer.
func (t TagSet) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TagSet) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = TagSet{}
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into TagSet", src)
	}
	set, err := ParseTagList(s)
	if err != nil {
		return err
	}
	*t = set
	return nil
}

// GormDataType stores tags as text on every dialect.
func (TagSet) GormDataType() string {
	return "text"
}
