package webidl

import "time"

// https://heycam.github.io/webidl/#idl-DOMString
type DOMString string

// https://w3c.github.io/hr-time/#dom-domhighrestimestamp
//
// Milliseconds since the time origin, with sub-millisecond precision.
type DOMHighResTimeStamp float64

// Since returns the timestamp for now relative to origin.
func Since(origin time.Time) DOMHighResTimeStamp {
	return DOMHighResTimeStamp(float64(time.Since(origin).Microseconds()) / 1000)
}
