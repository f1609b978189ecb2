// Package scan implements the Scan Context, Scan Request Pipeline,
// Periodic Scan Driver, and Notification Multiplexer (spec.md §4.4-§4.6)
// as a single-threaded cooperative event loop per radio (spec.md §5),
// the one component with no direct teacher analogue: the loop shape is
// grounded on spec.md §5's own explicit requirement and built with plain
// channels and select, the idiomatic Go shape for an owned-goroutine
// actor, the same way the teacher keeps each concern (mechanism in
// pkg/linux, policy in pkg/exporter) behind a narrow Go interface.
package scan

import (
	"errors"

	"github.com/rs/xid"

	"github.com/openwscand/scand/internal/bss"
)

// RequestID is a globally sortable request identifier (spec.md §3: "request
// id, unique per-radio"), backed by github.com/rs/xid the way the teacher
// lists xid among its dependencies for connection correlation.
type RequestID xid.ID

func (id RequestID) String() string { return xid.ID(id).String() }

// State is a Scan Context's current radio-activity state (spec.md §3).
type State int

const (
	StateNotRunning State = iota
	StatePassive
	StateActive
)

func (s State) String() string {
	switch s {
	case StatePassive:
		return "passive"
	case StateActive:
		return "active"
	default:
		return "not_running"
	}
}

// Priority levels a request may be admitted to the work queue at;
// higher value preempts lower (wqueue orders by priority descending).
// PeriodicPriority is deliberately the lowest so any user-initiated scan
// preempts a periodic one before its first trigger (spec.md §4.6).
const (
	PeriodicPriority = 0
	DefaultPriority  = 10
	HighPriority     = 20
)

// Parameters configures one scan request (spec.md §6.4 scan_parameters).
type Parameters struct {
	Freqs []uint32

	SSID       []byte // empty/nil: wildcard (no hidden-discovery, no explicit SSID)
	HiddenScan bool    // enumerate known hidden networks instead of SSID/wildcard

	ExtraIE []byte

	Flush bool

	RandomizeMACHint bool     // honor address-randomization if the radio supports it
	SourceMAC        *[6]byte // fixed source MAC; overrides randomization when set

	NoCCK bool

	Duration          uint16
	DurationMandatory bool
}

// Callbacks are the user-supplied request lifecycle hooks (spec.md §3).
// Trigger fires at most once. Notify fires at most once and, if it does,
// supersedes a pending Destroy-only completion; its boolean return value
// claims ownership of results (false: the caller is done with them
// immediately after the call returns). Destroy fires exactly once, for
// any request ever admitted (spec.md §8 property 1).
type Callbacks struct {
	Trigger func()
	Notify  func(err error, results []*bss.Record, freqs []uint32) (claimedOwnership bool)
	Destroy func()
}

// PeriodicCallbacks are invoked by the Periodic Scan Driver (spec.md §4.6).
type PeriodicCallbacks struct {
	Notify  func(err error, results []*bss.Record, freqs []uint32) (claimedOwnership bool)
	Destroy func()
}

// Error kinds named in spec.md §7, matched with errors.Is.
var (
	// ErrBusy/ErrAgain/ErrNoEntry mirror github.com/openwscand/scand/internal/genl's
	// errno sentinels at the scan-core level so callers never need to
	// import internal/genl themselves; ErrCanceled and ErrIO have no
	// genl counterpart.
	ErrBusy     = errors.New("scan: radio busy")
	ErrCanceled = errors.New("scan: request canceled")
	ErrAgain    = errors.New("scan: results invalidated by an external scan")
	ErrIO       = errors.New("scan: kernel command send failed")
	ErrNoEntry  = errors.New("scan: firmware scan cache is empty")

	// ErrUnknownRadio is returned by Registry methods given a radio id
	// with no attached Context.
	ErrUnknownRadio = errors.New("scan: unknown radio")
)
