// Package qc builds QC metric records in the JSON layout consumed by the
// ENCODE portal: an object of named metrics, each an object of values.
// Keys keep insertion order in the serialized output.
package qc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/wgbs/internal/fileutil"
)

// Field is one key/value pair of a metric. Value is an int, int64, float64,
// string or bool.
type Field struct {
	Key   string
	Value interface{}
}

// Values is an insertion-ordered mapping from keys to metric values.
type Values struct {
	fields []Field
	index  map[string]int
}

// Set stores value under key. Setting an existing key replaces its value
// but keeps its original position.
func (v *Values) Set(key string, value interface{}) {
	if v.index == nil {
		v.index = map[string]int{}
	}
	if i, ok := v.index[key]; ok {
		v.fields[i].Value = value
		return
	}
	v.index[key] = len(v.fields)
	v.fields = append(v.fields, Field{key, value})
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (interface{}, bool) {
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.fields[i].Value, true
}

// Len returns the number of keys.
func (v *Values) Len() int { return len(v.fields) }

// Fields returns the key/value pairs in insertion order.
func (v *Values) Fields() []Field { return v.fields }

// Int returns the value under key as an int64. Float values are accepted
// only if they are integral.
func (v *Values) Int(key string) (int64, error) {
	val, ok := v.Get(key)
	if !ok {
		return 0, fmt.Errorf("qc: missing value %q", key)
	}
	switch x := val.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if x == math.Trunc(x) {
			return int64(x), nil
		}
	}
	return 0, fmt.Errorf("qc: value %q=%v is not an integer", key, val)
}

// Float returns the value under key as a float64.
func (v *Values) Float(key string) (float64, error) {
	val, ok := v.Get(key)
	if !ok {
		return 0, fmt.Errorf("qc: missing value %q", key)
	}
	switch x := val.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, fmt.Errorf("qc: value %q=%v is not a number", key, val)
}

// MarshalJSON implements json.Marshaler. NaN and infinite floats, which
// have no JSON encoding, are written as null.
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if x, ok := f.Value.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, errors.E(err, "marshal qc value", f.Key)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Metric is a named group of QC values.
type Metric struct {
	Name   string
	Values *Values
}

// NewMetric creates a metric from the given fields, in order.
func NewMetric(name string, fields ...Field) Metric {
	m := Metric{Name: name, Values: &Values{}}
	for _, f := range fields {
		m.Values.Set(f.Key, f.Value)
	}
	return m
}

// Record is an ordered collection of uniquely named metrics.
type Record struct {
	metrics []Metric
}

// Add appends m to the record. It is an error to add two metrics with the
// same name.
func (r *Record) Add(m Metric) error {
	for _, existing := range r.metrics {
		if existing.Name == m.Name {
			return fmt.Errorf("qc: duplicate metric %q", m.Name)
		}
	}
	if m.Values == nil {
		m.Values = &Values{}
	}
	r.metrics = append(r.metrics, m)
	return nil
}

// Get returns the values of the named metric.
func (r *Record) Get(name string) (*Values, bool) {
	for _, m := range r.metrics {
		if m.Name == name {
			return m.Values, true
		}
	}
	return nil, false
}

// Metrics returns the metrics in the order they were added.
func (r *Record) Metrics() []Metric { return r.metrics }

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range r.metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := m.Values.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v json.Marshaler) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// Save writes v as JSON to path.
func Save(ctx context.Context, path string, v json.Marshaler) error {
	return fileutil.WriteWith(ctx, path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}

// Save writes the record as JSON to path.
func (r *Record) Save(ctx context.Context, path string) error {
	return Save(ctx, path, r)
}
