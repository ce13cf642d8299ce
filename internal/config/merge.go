package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput  = "output"
	keyLogging = "logging"
	keyStorage = "storage"
	keyTracker = "tracker"
	keyGoal    = "goal"
	keyMetrics = "metrics"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config sections.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:  true,
	keyLogging: true,
	keyStorage: true,
	keyTracker: true,
	keyGoal:    true,
	keyMetrics: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the overlay replaces the whole section;
// absent sections are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// decodeSection unmarshals data into a fresh zero value so the section is
// replaced rather than merged.
func decodeSection[T any](data []byte, dst *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyOutput:
		return decodeSection(data, &target.Output)
	case keyLogging:
		return decodeSection(data, &target.Logging)
	case keyStorage:
		return decodeSection(data, &target.Storage)
	case keyTracker:
		return decodeSection(data, &target.Tracker)
	case keyGoal:
		return decodeSection(data, &target.Goal)
	case keyMetrics:
		return decodeSection(data, &target.Metrics)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
