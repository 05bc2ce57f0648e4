package record

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a flat record whose fields keep their insertion order
type Record struct {
	fields *orderedmap.OrderedMap[string, interface{}]
}

// New creates an empty record
func New() *Record {
	return &Record{fields: orderedmap.New[string, interface{}]()}
}

// FromPairs builds a record from alternating key, value arguments
func FromPairs(kv ...interface{}) *Record {
	r := New()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Get returns the value of a field and whether it is present
func (r *Record) Get(key string) (interface{}, bool) {
	return r.fields.Get(key)
}

// Set stores a value; an existing field keeps its position
func (r *Record) Set(key string, value interface{}) {
	r.fields.Set(key, value)
}

// Len returns the number of fields
func (r *Record) Len() int {
	return r.fields.Len()
}

// Keys returns field names in order
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every field in order
func (r *Record) Each(fn func(key string, value interface{})) {
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// MarshalJSON writes the fields in order without escaping HTML characters
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	r.Each(func(key string, value interface{}) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err = encodeValue(&buf, key); err != nil {
			return
		}
		buf.WriteByte(':')
		err = encodeValue(&buf, value)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order and integer types
func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := parseObject(data)
	if err != nil {
		return err
	}
	r.fields = parsed.fields
	return nil
}

// Columns returns the first-seen field order across records
func Columns(records []*Record) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	return columns
}

func encodeValue(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
