package cleaner

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sheetclean/internal/normalize"
	"sheetclean/internal/record"
)

// Fields names the record fields each normalizer applies to
type Fields struct {
	Latitude  []string
	Longitude []string
	PTKP      []string
	Email     []string
	BirthDate []string
	Trim      []string
}

// DefaultFields returns the field names used by the client and outlet exports
func DefaultFields() Fields {
	return Fields{
		Latitude:  []string{"latitude", "lat"},
		Longitude: []string{"longitude", "lng", "lon"},
		PTKP:      []string{"ptkp"},
		Email:     []string{"email"},
		BirthDate: []string{"tanggal_lahir", "birth_date"},
		Trim: []string{
			"name", "nama", "nama client", "nama outlet",
			"phone", "no_hp",
			"client_id", "outlet_id",
			"no_rekening", "no_kk",
		},
	}
}

// Options configures a Cleaner
type Options struct {
	Fields      Fields
	EmailDomain string
	Precision   int
}

// Warning is a non-fatal problem with one field of one record
type Warning struct {
	Record  int
	Field   string
	Value   interface{}
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("record %d field %q: %s", w.Record, w.Field, w.Message)
}

// Report summarizes a batch
type Report struct {
	Records  int
	Warnings []Warning
}

// Cleaner normalizes the known fields of flat records
type Cleaner struct {
	fields      Fields
	emailDomain string
	coords      normalize.CoordinateNormalizer
	log         zerolog.Logger
}

// New creates a Cleaner
func New(opts Options, log zerolog.Logger) *Cleaner {
	domain := opts.EmailDomain
	if domain == "" {
		domain = normalize.DefaultEmailDomain
	}
	return &Cleaner{
		fields:      opts.Fields,
		emailDomain: domain,
		coords:      normalize.NewCoordinateNormalizer(opts.Precision),
		log:         log,
	}
}

// Clean normalizes rec in place. index is used only to identify the record in warnings.
func (c *Cleaner) Clean(index int, rec *record.Record) []Warning {
	var warnings []Warning
	warn := func(field string, value interface{}, format string, args ...interface{}) {
		w := Warning{Record: index, Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
		c.log.Warn().Int("record", index).Str("field", field).Interface("value", value).Msg(w.Message)
		warnings = append(warnings, w)
	}

	for _, f := range c.fields.Latitude {
		c.cleanCoordinate(rec, f, normalize.Latitude, warn)
	}
	for _, f := range c.fields.Longitude {
		c.cleanCoordinate(rec, f, normalize.Longitude, warn)
	}

	for _, f := range c.fields.PTKP {
		text, ok := c.text(rec, f, warn)
		if !ok {
			continue
		}
		if v, present := normalize.PTKP(text); present {
			rec.Set(f, v)
		} else {
			rec.Set(f, nil)
		}
	}

	for _, f := range c.fields.Email {
		text, ok := c.text(rec, f, warn)
		if !ok {
			continue
		}
		v, repaired, present := normalize.Email(text, c.emailDomain)
		if !present {
			rec.Set(f, nil)
			continue
		}
		if repaired {
			warn(f, text, "email repaired to %s", v)
		}
		rec.Set(f, v)
	}

	for _, f := range c.fields.BirthDate {
		v, ok := rec.Get(f)
		if !ok || v == nil {
			continue
		}
		if s, isText := v.(string); isText && strings.TrimSpace(s) == "" {
			continue
		}
		out, parsed := normalize.Date(v)
		if !parsed {
			warn(f, v, "unrecognized date format, left unchanged")
			continue
		}
		rec.Set(f, out)
	}

	for _, f := range c.fields.Trim {
		text, ok := c.text(rec, f, warn)
		if !ok {
			continue
		}
		rec.Set(f, strings.TrimSpace(text))
	}
	return warnings
}

// CleanAll normalizes every record; problems never stop the batch
func (c *Cleaner) CleanAll(records []*record.Record) Report {
	report := Report{Records: len(records)}
	for i, rec := range records {
		report.Warnings = append(report.Warnings, c.Clean(i, rec)...)
	}
	return report
}

type warnFunc func(field string, value interface{}, format string, args ...interface{})

func (c *Cleaner) cleanCoordinate(rec *record.Record, field string, axis normalize.Axis, warn warnFunc) {
	v, ok := rec.Get(field)
	if !ok {
		return
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		warn(field, v, "expected a %s value, left unchanged", axis)
		return
	}

	out := c.coords.Normalize(v, axis)
	if normalize.IsZero(out) {
		if raw := strings.TrimSpace(fmt.Sprint(valueOrEmpty(v))); raw != "" && !normalize.IsZero(raw) {
			warn(field, v, "malformed %s replaced with %s", axis, out)
		}
	}
	rec.Set(field, out)
}

// text returns the string value of a present field; absent and null fields are skipped
// silently, other types produce a warning
func (c *Cleaner) text(rec *record.Record, field string, warn warnFunc) (string, bool) {
	v, ok := rec.Get(field)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		warn(field, v, "expected text, got %T; left unchanged", v)
		return "", false
	}
	return s, true
}

func valueOrEmpty(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}
