package ingest

import (
	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

func errInvalidTarget() error {
	return lcerrors.New(lcerrors.ErrCodeInvalidPayload, "drop on invalid target")
}

// DropState is the drop-zone's visual state.
type DropState int

const (
	// DropIdle means no drag is over the zone.
	DropIdle DropState = iota
	// DropValid means the hovering drag carries the expected marker.
	DropValid
	// DropInvalid means the hovering drag lacks the marker; the zone shows
	// invalid-target feedback and a drop will be rejected.
	DropInvalid
)

// String returns the state name for logging and rendering.
func (s DropState) String() string {
	switch s {
	case DropIdle:
		return "idle"
	case DropValid:
		return "valid"
	case DropInvalid:
		return "invalid"
	}
	return "unknown"
}

// DropZone tracks the visual state machine of a canvas drop target:
//
//	Idle → Enter(valid|invalid) → Over(updates position) → {Drop, Leave} → Idle
//
// Validity is re-checked on every Enter and Over, not just once, because
// the host may mutate the transfer set mid-gesture.
type DropZone struct {
	state   DropState
	pointer scene.Point
}

// NewDropZone returns a zone in the idle state.
func NewDropZone() *DropZone {
	return &DropZone{state: DropIdle}
}

// State returns the current visual state.
func (z *DropZone) State() DropState { return z.state }

// Pointer returns the last hover position in screen coordinates.
func (z *DropZone) Pointer() scene.Point { return z.pointer }

func validity(transferTypes []string) DropState {
	for _, t := range transferTypes {
		if t == TransferType {
			return DropValid
		}
	}
	return DropInvalid
}

// Enter transitions from Idle on drag entry, classifying validity from the
// advertised transfer types.
func (z *DropZone) Enter(transferTypes []string, pointer scene.Point) DropState {
	z.state = validity(transferTypes)
	z.pointer = pointer
	return z.state
}

// Over updates the hover position and re-checks validity.
func (z *DropZone) Over(transferTypes []string, pointer scene.Point) DropState {
	z.state = validity(transferTypes)
	z.pointer = pointer
	return z.state
}

// Leave returns the zone to idle without a drop.
func (z *DropZone) Leave() {
	z.state = DropIdle
}

// Drop completes the gesture through the given dropper and returns the
// zone to idle regardless of outcome. When the zone is not in the valid
// state the drop is rejected without touching the store.
func (z *DropZone) Drop(d *Dropper, transfers map[string]string, cam scene.Camera) (string, error) {
	defer func() { z.state = DropIdle }()

	if z.state != DropValid {
		return "", errInvalidTarget()
	}
	return d.Drop(transfers, z.pointer, cam)
}
