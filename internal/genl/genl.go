// Package genl is the generic-netlink collaborator boundary named in
// spec.md §6.1. spec.md §1 explicitly treats the raw wire encoding of
// netlink attributes as provided by a generic-netlink client library;
// this package isolates that library (github.com/mdlayher/netlink,
// github.com/mdlayher/genetlink) behind the Conn interface so the rest
// of the module depends only on the interface.
package genl

import (
	"context"

	"github.com/openwscand/scand/internal/bss"
)

// CommandID is an identifier type for kernel commands. Trigger and GetScan
// do not return one and Notification carries none, so nothing in this
// package correlates notifications with commands by it.
type CommandID uint64

// TriggerAttrs are the attributes attached to one TRIGGER_SCAN message,
// per spec.md §4.4 and the attribute list in spec.md §6.1.
type TriggerAttrs struct {
	Freqs []uint32
	SSIDs [][]byte // nested SSID list; nil means "no SSIDs attribute"

	IE []byte

	HaveMAC bool
	MAC     [6]byte
	MACMask [6]byte

	Flush      bool
	RandomAddr bool
	RandomSN   bool

	HaveDuration      bool
	Duration          uint16
	DurationMandatory bool

	NoCCK     bool
	NoCCKRates []uint16
}

// NotificationKind is the wireless control family command a Notification
// reports (spec.md §6.1).
type NotificationKind int

const (
	NotifyTriggerScan NotificationKind = iota
	NotifyNewScanResults
	NotifyScanAborted
)

// Notification is one parsed kernel scan notification (spec.md §4.5,
// §6.1 "Attributes consumed ... Per-notification").
type Notification struct {
	Kind     NotificationKind
	RadioID  uint32
	Freqs    []uint32
	StartTSF uint64
	// ActiveScan reports whether an SSIDs attribute accompanied
	// TRIGGER_SCAN (active scan indicator, spec.md §4.5).
	ActiveScan bool
	Flush      bool
}

// Conn is the generic-netlink collaborator the scan core drives. Trigger
// and GetScan block until the kernel acknowledges the corresponding
// command (mirroring mdlayher/genetlink's synchronous Execute), so
// cancellation is expressed by canceling ctx rather than by a separate
// Cancel method; internal/scan keeps the context.CancelFunc for whichever
// command is outstanding per spec.md §4.7.
type Conn interface {
	// Trigger sends TRIGGER_SCAN for radioID with attrs and blocks for
	// the kernel's ack. A BUSY ack is reported as an error satisfying
	// errors.Is(err, ErrBusy); it is not otherwise distinguished from a
	// generic failure at this layer.
	Trigger(ctx context.Context, radioID uint32, attrs TriggerAttrs) error

	// GetScan issues GET_SCAN (a dump request) for radioID and returns
	// every parsed BSS attribute blob. An empty dump with no error is
	// valid (no BSSes seen); ErrNoEntry is reserved for the firmware
	// dump-only path (spec.md §6.4 scan_get_firmware_scan) when the
	// kernel's cache is empty.
	GetScan(ctx context.Context, radioID uint32) ([]bss.Attrs, error)

	// Notifications returns the channel of parsed kernel scan
	// notifications (spec.md §4.5); there is exactly one subscription
	// per process (spec.md §2 item 8), fanned out by radio id in
	// internal/scan's Notification Multiplexer.
	Notifications() <-chan Notification
}
