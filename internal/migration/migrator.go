// Package migration moves the state document between storage backends.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
)

var (
	// ErrSourceEmpty is returned when the source backend holds no document.
	ErrSourceEmpty = errors.New("source backend has no saved state")
	// ErrAborted is returned when the user declines to overwrite the target.
	ErrAborted = errors.New("migration aborted")
	// ErrVerifyFailed is returned when the target does not read back what
	// was written.
	ErrVerifyFailed = errors.New("migrated state does not match source")
)

// backupTimeLayout names backup files.
const backupTimeLayout = "20060102-150405"

// Options controls Migrate.
type Options struct {
	// Force overwrites a non-empty target without asking.
	Force bool
	// Out and In are used for the overwrite prompt. A nil In declines.
	Out io.Writer
	In  io.Reader
}

// Result describes a completed migration.
type Result struct {
	Activities int     `json:"activities"`
	Badges     int     `json:"badges"`
	Total      float64 `json:"totalFootprint"`
	Overwrote  bool    `json:"overwrote"`
}

// Migrate copies the document in src to dst, then reads it back to verify.
// The source is left untouched.
func Migrate(ctx context.Context, src, dst engine.Store, opts Options) (Result, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "migration").
		Str("operation", "Migrate").
		Logger()

	doc, err := src.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading source: %w", err)
	}
	if doc == nil {
		return Result{}, ErrSourceEmpty
	}

	existing, err := dst.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading target: %w", err)
	}
	overwrite := existing != nil && len(existing.Activities) > 0
	if overwrite && !opts.Force {
		prompt := fmt.Sprintf("Target already holds %d activities. Overwrite?", len(existing.Activities))
		if !Confirm(opts.Out, opts.In, prompt) {
			return Result{}, ErrAborted
		}
	}

	if err = dst.Save(ctx, *doc); err != nil {
		return Result{}, fmt.Errorf("saving target: %w", err)
	}

	check, err := dst.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("verifying target: %w", err)
	}
	if check == nil || len(check.Activities) != len(doc.Activities) {
		return Result{}, ErrVerifyFailed
	}

	res := Result{
		Activities: len(doc.Activities),
		Badges:     len(doc.Badges),
		Total:      doc.TotalFootprint,
		Overwrote:  overwrite,
	}
	logger.Info().
		Int("activities", res.Activities).
		Bool("overwrote", res.Overwrote).
		Msg("state migrated")
	return res, nil
}

// Confirm writes prompt followed by " [y/N] " and reports whether the reply
// is y or yes. Unreadable input counts as no.
func Confirm(out io.Writer, in io.Reader, prompt string) bool {
	if in == nil {
		return false
	}
	if out != nil {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
	}

	var response string
	if _, err := fmt.Fscanln(in, &response); err != nil {
		response = ""
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// BackupFile copies path to a timestamped sibling and returns its name. A
// missing path returns "" and no error.
func BackupFile(path string, now time.Time) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	dst := fmt.Sprintf("%s.bak-%s", path, now.UTC().Format(backupTimeLayout))
	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	if mkdirErr := os.MkdirAll(filepath.Dir(dst), 0o700); mkdirErr != nil {
		return mkdirErr
	}

	destFile, createErr := os.Create(dst)
	if createErr != nil {
		return createErr
	}
	defer destFile.Close()

	if _, copyErr := io.Copy(destFile, sourceFile); copyErr != nil {
		return copyErr
	}

	sourceInfo, statErr := os.Stat(src)
	if statErr != nil {
		return statErr
	}

	return os.Chmod(dst, sourceInfo.Mode())
}
