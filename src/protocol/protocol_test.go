package protocol

import (
	"testing"

	"github.com/pkg/errors"
)

func TestChannelID(t *testing.T) {
	id, err := ChannelID(0, Initiator)
	if err != nil || id != 0 {
		t.Fatalf("expected 0, got %d (%v)", id, err)
	}

	id, err = ChannelID(0, Responder)
	if err != nil || id != 0x8000 {
		t.Fatalf("expected 0x8000, got %#x (%v)", id, err)
	}

	id, err = ChannelID(3, Responder)
	if err != nil || id != 0x8003 {
		t.Fatalf("expected 0x8003, got %#x (%v)", id, err)
	}

	if _, err := ChannelID(0, None); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAgencyString(t *testing.T) {
	if Initiator.String() != "Initiator" || Responder.String() != "Responder" || None.String() != "None" {
		t.Fatalf("unexpected agency names")
	}
	if Agency(42).String() != "Unknown" {
		t.Fatalf("expected Unknown")
	}
}
