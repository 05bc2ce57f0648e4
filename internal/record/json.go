package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrMissingFile is returned when an input path does not exist
	ErrMissingFile = errors.New("file not found")
	// ErrMalformedInput is returned for unparseable JSON or an unexpected top-level shape
	ErrMalformedInput = errors.New("malformed input")
)

// Warning describes a list element that was skipped because it is not a record
type Warning struct {
	Index  int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("element %d skipped: %s", w.Index, w.Reason)
}

// Load reads a record list. The top level may be a bare array or an object whose
// first key holds the array.
func Load(r io.Reader) ([]*Record, []Warning, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, nil, fmt.Errorf("%w: top level must be an array or an object, got %v", ErrMalformedInput, tok)
	}

	switch delim {
	case '[':
		return readList(dec)
	case '{':
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: top level object has no keys", ErrMalformedInput)
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return nil, nil, fmt.Errorf("%w: value of first key %q is not an array", ErrMalformedInput, key)
		}
		return readList(dec)
	default:
		return nil, nil, fmt.Errorf("%w: unexpected %v at top level", ErrMalformedInput, delim)
	}
}

// LoadFile opens path and loads its record list
func LoadFile(path string) ([]*Record, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, warnings, err := Load(f)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, warnings, nil
}

// Write encodes records as an indented JSON array; non-ASCII text is kept as is
func Write(w io.Writer, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimRight(compact.Bytes(), "\n"), "", "  "); err != nil {
		return fmt.Errorf("indenting records: %w", err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

// WriteFile writes records to path, replacing any existing file
func WriteFile(path string, records []*Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readList(dec *json.Decoder) ([]*Record, []Warning, error) {
	var records []*Record
	var warnings []Warning
	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("%w: element %d: %v", ErrMalformedInput, i, err)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			warnings = append(warnings, Warning{Index: i, Reason: "not an object"})
			continue
		}
		rec, err := parseObject(trimmed)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: element %d: %v", ErrMalformedInput, i, err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if records == nil {
		records = []*Record{}
	}
	return records, warnings, nil
}

func parseObject(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	rec := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		rec.Set(key, scalar(value))
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// scalar turns json.Number into int64 when it is integral, float64 otherwise
func scalar(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
