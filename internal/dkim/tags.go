package dkim

import "strings"

// Tag is a single tag=value pair from a DKIM tag list.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TagSet is an ordered tag list. Iteration follows first-seen order; a
// repeated tag keeps its original position but takes the last value.
type TagSet struct {
	keys   []string
	values map[string]string
}

// ParseTags parses a DNS TXT record value such as
// "v=DKIM1; k=rsa; p=MIGf..." into a TagSet.
//
// Parsing never fails. Segments that are empty or carry no '=' are skipped,
// so garbage input yields an empty set rather than an error.
func ParseTags(raw string) TagSet {
	var ts TagSet
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ts.set(name, strings.TrimSpace(value))
	}
	return ts
}

func (ts *TagSet) set(name, value string) {
	if ts.values == nil {
		ts.values = make(map[string]string)
	}
	if _, ok := ts.values[name]; !ok {
		ts.keys = append(ts.keys, name)
	}
	ts.values[name] = value
}

// Get returns the value of the named tag and whether it is present.
func (ts TagSet) Get(name string) (string, bool) {
	v, ok := ts.values[name]
	return v, ok
}

// Len returns the number of distinct tags.
func (ts TagSet) Len() int { return len(ts.keys) }

// Keys returns tag names in first-seen order.
func (ts TagSet) Keys() []string {
	out := make([]string, len(ts.keys))
	copy(out, ts.keys)
	return out
}

// Tags returns the pairs in first-seen order.
func (ts TagSet) Tags() []Tag {
	out := make([]Tag, 0, len(ts.keys))
	for _, k := range ts.keys {
		out = append(out, Tag{Name: k, Value: ts.values[k]})
	}
	return out
}

// Equal reports whether ts and other hold the same tags in the same order.
func (ts TagSet) Equal(other TagSet) bool {
	if len(ts.keys) != len(other.keys) {
		return false
	}
	for i, k := range ts.keys {
		if other.keys[i] != k || other.values[k] != ts.values[k] {
			return false
		}
	}
	return true
}
