package storage

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/rshade/ecopulse/internal/engine"
)

// SchemaVersion is the version written into every saved document.
const SchemaVersion = "1.0.0"

// legacySchemaVersion is assumed for documents without a version.
const legacySchemaVersion = "1.0.0"

// Document is the persisted form of engine.State.
type Document struct {
	SchemaVersion string `json:"schemaVersion"`
	engine.State
}

// Encode serializes s as a versioned document.
func Encode(s engine.State) ([]byte, error) {
	data, err := json.MarshalIndent(Document{SchemaVersion: SchemaVersion, State: s.Clone()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling state document: %w", err)
	}
	return data, nil
}

// Decode parses a document and checks its schema version. Unparseable JSON
// yields ErrStoreCorrupted; another major version yields
// ErrIncompatibleSchema.
func Decode(data []byte) (*engine.State, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreCorrupted, err)
	}
	if err := CheckSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, err
	}
	s := doc.State.Clone()
	return &s, nil
}

// CheckSchemaVersion reports whether a document version can be read.
func CheckSchemaVersion(v string) error {
	if v == "" {
		v = legacySchemaVersion
	}
	got, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrIncompatibleSchema, v, err)
	}
	want := semver.MustParse(SchemaVersion)
	if got.Major() != want.Major() {
		return fmt.Errorf("%w: document is %s, this build reads %d.x",
			ErrIncompatibleSchema, got, want.Major())
	}
	return nil
}
