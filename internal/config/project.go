package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/ecopulse/internal/logging"
)

// projectDirName is the per-directory overlay folder.
const projectDirName = ".ecopulse"

// FindProjectDir walks up from startDir looking for a .ecopulse directory
// containing config.yaml. The global config directory is never returned.
// Returns "" when none is found.
func FindProjectDir(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	global, _ := GetConfigDir()
	if global != "" {
		if abs, absErr := filepath.Abs(global); absErr == nil {
			global = abs
		}
	}

	for {
		candidate := filepath.Join(dir, projectDirName)
		if candidate != global {
			if _, statErr := os.Stat(filepath.Join(candidate, configFileName)); statErr == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir returns New() with projectDir/config.yaml shallow-merged
// on top. An empty projectDir or missing overlay yields plain New().
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := cfg.Copy()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global settings")
		return cfg
	}
	merged.ApplyEnvOverrides()
	return merged
}
