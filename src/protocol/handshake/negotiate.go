package handshake

import (
	"fmt"

	"github.com/mosaicnetworks/n2n/src/cbor"
)

// negotiate computes the responder's reply to the recorded proposal and the
// matching local outcome. The highest version present on both sides is the
// only candidate; its magic must be ours. The accepted diffusion flag is set
// when either side asked for initiator-only diffusion.
func (h *Handshake) negotiate() (cbor.Value, Outcome) {
	local := h.versions.Versions()
	highest := local[len(local)-1]

	if h.proposalErr != nil {
		reply := RefuseDecodeErrorMessage(highest, h.proposalErr.Error())
		return reply, Outcome{Err: h.proposalErr}
	}

	version, ok := h.versions.Highest(h.proposal)
	if !ok {
		err := &VersionMismatchError{Local: local, Remote: h.proposal.Versions()}
		return RefuseVersionMismatchMessage(local, err.Error()), Outcome{Err: err}
	}

	ours := h.versions[version]
	theirs := h.proposal[version]
	if theirs.NetworkMagic != h.magic {
		err := &MagicMismatchError{
			Expected: h.magic,
			Actual:   cbor.Uint(uint64(theirs.NetworkMagic)),
		}
		reason := fmt.Sprintf("refused: %v", err)
		return RefusedMessage(version, reason), Outcome{Version: version, Err: err}
	}

	agreed := VersionData{
		NetworkMagic:           h.magic,
		InitiatorOnlyDiffusion: ours.InitiatorOnlyDiffusion || theirs.InitiatorOnlyDiffusion,
	}
	return AcceptMessage(version, agreed), Outcome{Version: version, Data: agreed}
}
