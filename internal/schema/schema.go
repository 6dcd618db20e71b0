// Package schema reconciles stored finance documents with the bundled
// defaults. Reconciliation runs versioned migrations on the raw JSON object,
// then merges defaults underneath the stored data and stamps the version.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theirongolddev/richlife/internal/model"
)

//go:embed defaults.json
var defaultsJSON []byte

// ErrInvalidImport is returned when an imported document lacks its required collections.
var ErrInvalidImport = errors.New("invalid import")

// Result describes what a reconciliation did.
type Result struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Applied     []string `json:"applied"`
}

// DefaultsJSON returns a copy of the bundled default document.
func DefaultsJSON() []byte {
	out := make([]byte, len(defaultsJSON))
	copy(out, defaultsJSON)
	return out
}

// Defaults returns a freshly decoded default document.
func Defaults() (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(defaultsJSON, &doc); err != nil {
		return nil, fmt.Errorf("decoding bundled defaults: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Reconcile upgrades a stored document to the current schema. It fails only
// when data is not a JSON object or the migrated object cannot be decoded.
func Reconcile(data []byte) (*model.Document, Result, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, Result{}, err
	}
	defaults, err := decodeObject(defaultsJSON)
	if err != nil {
		return nil, Result{}, fmt.Errorf("decoding bundled defaults: %w", err)
	}

	res := Result{FromVersion: versionOf(raw), ToVersion: CurrentVersion, Applied: []string{}}
	for _, m := range Migrations {
		if m.Version <= res.FromVersion {
			continue
		}
		if err := m.Apply(raw, defaults); err != nil {
			return nil, res, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		res.Applied = append(res.Applied, m.Name)
	}

	mergeDefaults(raw, defaults)
	raw["schemaVersion"] = CurrentVersion

	merged, err := json.Marshal(raw)
	if err != nil {
		return nil, res, fmt.Errorf("encoding reconciled document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(merged, &doc); err != nil {
		return nil, res, fmt.Errorf("decoding reconciled document: %w", err)
	}
	doc.Normalize()
	return &doc, res, nil
}

// ValidateImport checks that data is an object carrying a snapshots array and an income object.
func ValidateImport(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if _, ok := raw["snapshots"].([]any); !ok {
		return fmt.Errorf("%w: missing snapshots array", ErrInvalidImport)
	}
	if _, ok := raw["income"].(map[string]any); !ok {
		return fmt.Errorf("%w: missing income object", ErrInvalidImport)
	}
	return nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if raw == nil {
		return nil, errors.New("parsing document: not a JSON object")
	}
	return raw, nil
}

func versionOf(raw map[string]any) int {
	v, ok := raw["schemaVersion"].(float64)
	if !ok || v < 0 {
		return 0
	}
	return int(v)
}
