// Package schema validates and normalizes raw Mpesa request payloads.
//
// Every operation has a fixed set of required and optional fields. Validation
// rejects missing or mistyped fields and produces a normalized payload that
// contains only the declared fields; unknown keys are dropped.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dvcrn/mpesa-go/internal/operation"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindURL
	kindCode
	kindAmount
)

type field struct {
	name     string
	kind     fieldKind
	optional bool
	allowed  []interface{}
}

// Schema is the validator for one operation payload
type Schema struct {
	Name   string
	fields []field
	rule   validation.MapRule
}

func newSchema(name string, fields ...field) *Schema {
	keys := make([]*validation.KeyRules, 0, len(fields))
	for _, f := range fields {
		var rules []validation.Rule
		if !f.optional {
			rules = append(rules, validation.Required)
		}
		switch f.kind {
		case kindText:
			rules = append(rules, validation.By(textRule))
		case kindURL:
			rules = append(rules, validation.By(textRule), is.URL)
		case kindCode:
			rules = append(rules, validation.By(codeRule))
		case kindAmount:
			rules = append(rules, validation.By(amountRule))
		}
		if len(f.allowed) > 0 {
			rules = append(rules, validation.In(f.allowed...))
		}
		key := validation.Key(f.name, rules...)
		if f.optional {
			key = key.Optional()
		}
		keys = append(keys, key)
	}
	return &Schema{
		Name:   name,
		fields: fields,
		rule:   validation.Map(keys...).AllowExtraKeys(),
	}
}

// Validate checks raw against the schema and returns the normalized payload.
// The returned error is a validation.Errors keyed by field name.
func (s *Schema) Validate(raw map[string]interface{}) (map[string]interface{}, error) {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if err := validation.Validate(raw, s.rule); err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(s.fields))
	for _, f := range s.fields {
		v, ok := raw[f.name]
		if !ok || v == nil {
			continue
		}
		out[f.name] = normalize(f.kind, v)
	}
	return out, nil
}

// Fields returns the required and optional field names, in declaration order
func (s *Schema) Fields() (required, optional []string) {
	for _, f := range s.fields {
		if f.optional {
			optional = append(optional, f.name)
		} else {
			required = append(required, f.name)
		}
	}
	return required, optional
}

// For returns the schema bound to an operation
func For(kind operation.Kind) (*Schema, error) {
	s, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for operation %q", kind)
	}
	return s, nil
}

// Validate is shorthand for For(kind) followed by Schema.Validate
func Validate(kind operation.Kind, raw map[string]interface{}) (map[string]interface{}, error) {
	s, err := For(kind)
	if err != nil {
		return nil, err
	}
	return s.Validate(raw)
}

// FieldErrors flattens a validation error into field -> message pairs.
// Errors that are not field errors are reported under the empty key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for k, v := range verrs {
		out[k] = v.Error()
	}
	return out
}

func normalize(kind fieldKind, v interface{}) interface{} {
	switch kind {
	case kindCode:
		s, _ := codeString(v)
		return s
	case kindAmount:
		if s, ok := v.(string); ok {
			return json.Number(s)
		}
		return v
	default:
		return v
	}
}
