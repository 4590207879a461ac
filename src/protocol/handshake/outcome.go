package handshake

import "fmt"

// Outcome is the result of a finished handshake. Err is nil when both sides
// agreed on Version and Data; otherwise it holds one of the error types of
// this package or a *cbor.DecodeError.
type Outcome struct {
	Version uint64
	Data    VersionData
	Err     error
}

// Agreed reports whether the handshake succeeded.
func (o Outcome) Agreed() bool {
	return o.Err == nil
}

// Reason returns the failure text, empty on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("rejected: %v", o.Err)
	}
	return fmt.Sprintf("agreed: version %d, magic %d", o.Version, o.Data.NetworkMagic)
}
