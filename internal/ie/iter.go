package ie

import "errors"

// ErrTruncated is returned when an element's declared length runs past the
// end of the input.
var ErrTruncated = errors.New("ie: truncated element")

// Iterate walks a TLV stream, calling fn once per element in order. fn's
// Data borrows from data and is only valid until the next call to fn.
// Iterate stops and returns ErrTruncated if any element's length byte
// claims more data than remains; it returns nil once the stream is fully
// consumed. Returning false from fn stops iteration early without error.
func Iterate(data []byte, fn func(Element) bool) error {
	for len(data) > 0 {
		if len(data) < 2 {
			return ErrTruncated
		}

		tag := Tag(data[0])
		length := int(data[1])

		if len(data) < 2+length {
			return ErrTruncated
		}

		if !fn(Element{Tag: tag, Data: data[2 : 2+length]}) {
			return nil
		}

		data = data[2+length:]
	}

	return nil
}
