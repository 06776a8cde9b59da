package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrSchemaInvalid  = errors.New("schema invalid")
)

// Schema is a registry value. The set of shapes is closed: a schema is
// either an already-parsed document, a JSON-encoded string, or a builder
// that produces a document for a given name.
type Schema interface {
	document(name string) (Document, error)
}

// Document is a parsed JSON Schema.
type Document map[string]any

// Encoded is a JSON-encoded schema.
type Encoded string

// Builder produces a document titled for the given name. It covers
// schemas that library callers construct programmatically instead of
// loading from a location file.
type Builder func(name string) Document

func (d Document) document(string) (Document, error) {
	return d, nil
}

func (e Encoded) document(name string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(e), &doc); err != nil {
		return nil, fmt.Errorf("%w: schema %q does not decode: %w", ErrSchemaInvalid, name, err)
	}
	return doc, nil
}

func (b Builder) document(name string) (Document, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: schema %q has a nil builder", ErrSchemaInvalid, name)
	}
	return b(name), nil
}

// fingerprint is the identity used for alias deduplication: the canonical
// JSON encoding of the resolved document. encoding/json sorts map keys,
// so equal documents produce equal fingerprints regardless of shape.
func fingerprint(schema Schema, name string) (string, error) {
	doc, err := schema.document(name)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: schema %q does not encode: %w", ErrSchemaInvalid, name, err)
	}
	return string(out), nil
}
