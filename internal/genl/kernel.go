package genl

import (
	"context"
	"fmt"
	"sync"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"

	"github.com/openwscand/scand/internal/bss"
)

// KernelConn is the real Conn, backed by a generic-netlink socket dialed
// against the running kernel's wireless control family. It is the only
// type in this module that imports mdlayher/genetlink or mdlayher/netlink
// directly, per this package's doc comment.
type KernelConn struct {
	conn     *genetlink.Conn
	familyID uint16

	notifications chan Notification

	mu     sync.Mutex
	closed bool
}

// DialKernelConn resolves the wireless control family, joins its scan
// multicast group, and starts the background notification reader. Callers
// must call Close when done to release the socket and stop the reader.
func DialKernelConn() (*KernelConn, error) {
	conn, err := genetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("genl: dialing generic netlink: %w", err)
	}

	family, err := conn.GetFamily(familyName)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("genl: resolving %s family: %w", familyName, err)
	}

	var scanGroup *genetlink.MulticastGroup
	for i, g := range family.Groups {
		if g.Name == groupScan {
			scanGroup = &family.Groups[i]
			break
		}
	}
	if scanGroup == nil {
		conn.Close()
		return nil, fmt.Errorf("genl: %s family has no %q multicast group", familyName, groupScan)
	}
	if err := conn.JoinGroup(scanGroup.ID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("genl: joining scan multicast group: %w", err)
	}

	k := &KernelConn{
		conn:          conn,
		familyID:      family.ID,
		notifications: make(chan Notification, 64),
	}
	go k.readLoop()
	return k, nil
}

func (k *KernelConn) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	k.mu.Unlock()

	err := k.conn.Close()
	close(k.notifications)
	return err
}

func (k *KernelConn) Notifications() <-chan Notification {
	return k.notifications
}

func (k *KernelConn) readLoop() {
	for {
		msgs, _, err := k.conn.Receive()
		if err != nil {
			return
		}
		for _, m := range msgs {
			n, ok := decodeNotification(m)
			if !ok {
				continue
			}
			k.mu.Lock()
			closed := k.closed
			k.mu.Unlock()
			if closed {
				return
			}
			k.notifications <- n
		}
	}
}

func decodeNotification(m genetlink.Message) (Notification, bool) {
	var kind NotificationKind
	switch m.Header.Command {
	case cmdTriggerScan:
		kind = NotifyTriggerScan
	case cmdNewScanResults:
		kind = NotifyNewScanResults
	case cmdScanAborted:
		kind = NotifyScanAborted
	default:
		return Notification{}, false
	}

	n := Notification{Kind: kind}

	ad, err := netlink.NewAttributeDecoder(m.Data)
	if err != nil {
		return Notification{}, false
	}
	for ad.Next() {
		switch ad.Type() {
		case attrWiphy:
			n.RadioID = ad.Uint32()
		case attrScanFrequencies:
			nested, err := netlink.NewAttributeDecoder(ad.Bytes())
			if err == nil {
				for nested.Next() {
					n.Freqs = append(n.Freqs, nested.Uint32())
				}
			}
		case attrScanSSIDs:
			n.ActiveScan = true
		case attrScanFlush:
			n.Flush = true
		case attrScanStartTimeTSF:
			n.StartTSF = ad.Uint64()
		}
	}
	if err := ad.Err(); err != nil {
		return Notification{}, false
	}
	return n, true
}

// Trigger implements Conn.Trigger by sending TRIGGER_SCAN and blocking for
// the kernel's ack, per this package's doc comment on Conn.
func (k *KernelConn) Trigger(ctx context.Context, radioID uint32, attrs TriggerAttrs) error {
	payload, err := encodeTriggerAttrs(radioID, attrs)
	if err != nil {
		return fmt.Errorf("genl: encoding trigger attributes: %w", err)
	}

	msg := genetlink.Message{
		Header: genetlink.Header{Command: cmdTriggerScan, Version: 1},
		Data:   payload,
	}

	done := make(chan error, 1)
	go func() {
		_, err := k.conn.Execute(msg, k.familyID, netlink.Request|netlink.Acknowledge)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// GetScan implements Conn.GetScan by issuing a GET_SCAN dump request and
// decoding each returned BSS attribute blob into a bss.Attrs.
func (k *KernelConn) GetScan(ctx context.Context, radioID uint32) ([]bss.Attrs, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(attrWiphy, radioID)
	payload, err := ae.Encode()
	if err != nil {
		return nil, fmt.Errorf("genl: encoding get-scan request: %w", err)
	}

	msg := genetlink.Message{
		Header: genetlink.Header{Command: cmdGetScan, Version: 1},
		Data:   payload,
	}

	type result struct {
		msgs []genetlink.Message
		err  error
	}
	done := make(chan result, 1)
	go func() {
		msgs, err := k.conn.Execute(msg, k.familyID, netlink.Request|netlink.Dump)
		done <- result{msgs, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, res.err
	}

	out := make([]bss.Attrs, 0, len(res.msgs))
	for _, m := range res.msgs {
		a, ok := decodeBSSAttrs(m.Data)
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func decodeBSSAttrs(data []byte) (bss.Attrs, bool) {
	var a bss.Attrs

	ad, err := netlink.NewAttributeDecoder(data)
	if err != nil {
		return a, false
	}
	for ad.Next() {
		if ad.Type() != attrBSS {
			continue
		}
		bd, err := netlink.NewAttributeDecoder(ad.Bytes())
		if err != nil {
			continue
		}
		for bd.Next() {
			switch bd.Type() {
			case attrBSSBSSID:
				copy(a.BSSID[:], bd.Bytes())
			case attrBSSFrequency:
				a.Frequency = bd.Uint32()
			case attrBSSCapability:
				a.Capability = bd.Uint16()
			case attrBSSInformationElements:
				a.IEs = append([]byte(nil), bd.Bytes()...)
			case attrBSSBeaconIEs:
				a.BeaconIEs = append([]byte(nil), bd.Bytes()...)
			case attrBSSPrespData:
				a.PrespData = true
			case attrBSSSignalMBm:
				a.HaveSignalMBm = true
				a.SignalMBm = bd.Int32()
			case attrBSSSignalUnspec:
				a.HaveSignalU8 = true
				if b := bd.Bytes(); len(b) > 0 {
					a.SignalU8 = b[0]
				}
			case attrBSSTSF:
				a.ParentTSF = bd.Uint64()
			case attrBSSSeenMsAgo:
				a.HaveSeenMsAgo = true
				a.SeenMsAgo = bd.Uint32()
			case attrBSSLastSeenBootTime:
				a.HaveLastSeenBootUs = true
				a.LastSeenBootUs = bd.Uint64()
			}
		}
		if err := bd.Err(); err != nil {
			return bss.Attrs{}, false
		}
		return a, true
	}
	return a, false
}

func encodeTriggerAttrs(radioID uint32, attrs TriggerAttrs) ([]byte, error) {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(attrWiphy, radioID)

	if len(attrs.Freqs) > 0 {
		ae.Nested(attrScanFrequencies, func(nae *netlink.AttributeEncoder) error {
			for i, f := range attrs.Freqs {
				nae.Uint32(uint16(i), f)
			}
			return nil
		})
	}

	if attrs.SSIDs != nil {
		ae.Nested(attrScanSSIDs, func(nae *netlink.AttributeEncoder) error {
			for i, ssid := range attrs.SSIDs {
				nae.Bytes(uint16(i), ssid)
			}
			return nil
		})
	}

	if len(attrs.IE) > 0 {
		ae.Bytes(attrIE, attrs.IE)
	}
	if attrs.HaveMAC {
		ae.Bytes(attrMAC, attrs.MAC[:])
		ae.Bytes(attrMACMask, attrs.MACMask[:])
	}
	if attrs.Flush {
		ae.Flag(attrScanFlush, true)
	}
	if attrs.HaveDuration {
		ae.Uint16(attrMeasurementDuration, attrs.Duration)
		if attrs.DurationMandatory {
			ae.Flag(attrMeasurementDurationMandatory, true)
		}
	}
	if attrs.NoCCK && len(attrs.NoCCKRates) > 0 {
		ae.Nested(attrScanSuppRates, func(nae *netlink.AttributeEncoder) error {
			for i, r := range attrs.NoCCKRates {
				nae.Uint16(uint16(i), r)
			}
			return nil
		})
	}

	return ae.Encode()
}
