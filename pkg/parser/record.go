package parser

import (
	"fmt"
	"sort"
)

// Field is a single key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of keys and values. The zero value is an empty
// record. Records are never modified in place; With returns a copy.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields. A repeated key keeps its first
// position and takes the last value.
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r = r.with(f.Key, f.Value)
	}
	return r
}

// Pairs builds a record from alternating keys and values.
// It panics if kv has odd length or a key is not a string.
func Pairs(kv ...any) Record {
	if len(kv)%2 != 0 {
		panic("parser: Pairs called with odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("parser: Pairs key at position %d is %T, not string", i, kv[i]))
		}
		r = r.with(key, kv[i+1])
	}
	return r
}

// FromMap builds a record from m with keys in sorted order.
func FromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Record{fields: make([]Field, 0, len(keys))}
	for _, k := range keys {
		r.fields = append(r.fields, Field{Key: k, Value: m[k]})
	}
	return r
}

// With returns a copy of r with key set to value.
func (r Record) With(key string, value any) Record {
	return r.with(key, value)
}

func (r Record) with(key string, value any) Record {
	out := Record{fields: make([]Field, len(r.fields), len(r.fields)+1)}
	copy(out.fields, r.fields)
	for i := range out.fields {
		if out.fields[i].Key == key {
			out.fields[i].Value = value
			return out
		}
	}
	out.fields = append(out.fields, Field{Key: key, Value: value})
	return out
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of keys.
func (r Record) Len() int {
	return len(r.fields)
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the pairs in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Map returns the record as a map, losing order.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	return m
}

// Fields maps record keys to validators.
type Fields map[string]any

// Validate runs each key of in that has a validator and returns a record
// holding only those keys, transformed, in input order. Keys absent from in
// are not required and keys without a validator are dropped.
func (f Fields) Validate(in Record) (Record, error) {
	out := Record{fields: make([]Field, 0, len(in.fields))}
	for _, field := range in.fields {
		v, ok := f[field.Key]
		if !ok {
			continue
		}
		value, err := RunField(field.Key, v, field.Value)
		if err != nil {
			return Record{}, err
		}
		out.fields = append(out.fields, Field{Key: field.Key, Value: value})
	}
	return out, nil
}
