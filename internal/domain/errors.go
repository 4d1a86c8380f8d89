package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the sync and query paths. None of these is fatal to
// the serving process; see the per-error notes.
var (
	// ErrUnavailable means the upstream source could not produce a usable
	// payload (network error, non-2xx, malformed body, or empty result).
	// The sync orchestrator recovers from it by falling back to generated
	// data; it is never surfaced to dashboard callers.
	ErrUnavailable = errors.New("upstream source unavailable")

	// ErrSyncInProgress is returned when a sync is requested while another
	// one is in flight. Callers should retry shortly; the in-flight run
	// will have refreshed the snapshot by then.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrInvalidRange rejects filter input where date_from is after date_to.
	ErrInvalidRange = errors.New("date_from must not be after date_to")

	// ErrEmptySync means neither the live source nor the fallback generator
	// produced a single normalizable record. This indicates a defect and
	// aborts the sync loudly rather than serving an empty dashboard.
	ErrEmptySync = errors.New("sync produced no usable records")
)

// EnumError rejects a caller-supplied value outside a known enum.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// MalformedRecordError marks a single raw record that failed normalization.
// The sync cycle skips such records and reports the skip count on the
// SyncRun; a malformed record never fails the whole cycle on its own.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q: %s", e.Field, e.Reason)
}

// IsMalformed reports whether err is a record-level normalization failure
func IsMalformed(err error) bool {
	var m *MalformedRecordError
	return errors.As(err, &m)
}
