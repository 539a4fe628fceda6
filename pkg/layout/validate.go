package layout

import (
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/diag"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
)

// MaxBitViewWidth is the widest register that still receives a structured
// bit-field view. Anything wider is emitted as an opaque byte block.
const MaxBitViewWidth = 64

// NativeWidth returns the smallest native unsigned integer width (in bits)
// that holds sizeBits. The second return value is false when sizeBits
// exceeds MaxBitViewWidth.
func NativeWidth(sizeBits uint32) (uint32, bool) {
	switch {
	case sizeBits == 0:
		return 0, false
	case sizeBits <= 8:
		return 8, true
	case sizeBits <= 16:
		return 16, true
	case sizeBits <= 32:
		return 32, true
	case sizeBits <= 64:
		return 64, true
	default:
		return 0, false
	}
}

// Validator applies the layout invariants to an already-built device model.
// Best-effort corrections (reset truncation, width rounding, dropping
// out-of-bounds fields) are applied in place; overlaps are reported but the
// entities are retained.
type Validator struct {
	rep diag.Reporter
}

// NewValidator creates a Validator reporting to rep. A nil rep disables reporting.
func NewValidator(rep diag.Reporter) *Validator {
	if rep == nil {
		rep = diag.NoopReporter{}
	}
	return &Validator{rep: rep}
}

// ValidateDevice checks every peripheral of the device.
func (v *Validator) ValidateDevice(dev *svd.Device) {
	for _, p := range dev.Peripherals {
		v.validatePeripheral(p, diag.JoinPath(dev.Name, p.Name))
	}
}

func (v *Validator) validatePeripheral(p *svd.Peripheral, path string) {
	for _, r := range p.Registers {
		v.validateRegister(r, diag.JoinPath(path, r.Name))
	}

	// Registers arrive sorted by offset, so a pairwise scan finds every
	// intersecting byte range.
	for i := 1; i < len(p.Registers); i++ {
		prev, next := p.Registers[i-1], p.Registers[i]
		if prev.End() > next.AddressOffset {
			v.rep.Report(diag.New(diag.SeverityWarning, diag.KindRegisterOverlap,
				diag.JoinPath(path, next.Name),
				"[0x%X, 0x%X) overlaps %s [0x%X, 0x%X)",
				next.AddressOffset, next.End(), prev.Name, prev.AddressOffset, prev.End()))
		}
	}
}

func (v *Validator) validateRegister(r *svd.Register, path string) {
	if r.SizeBits > MaxBitViewWidth {
		// Opaque byte block: no bit-addressable access, no field-level checks.
		return
	}

	if native, _ := NativeWidth(r.SizeBits); native != r.SizeBits {
		v.rep.Report(diag.New(diag.SeverityWarning, diag.KindOddRegisterSize,
			path, "bit size %d rounded up to %d", r.SizeBits, native))
		r.SizeBits = native
	}

	if r.SizeBits < 64 {
		if max := uint64(1)<<r.SizeBits - 1; r.ResetValue > max {
			v.rep.Report(diag.New(diag.SeverityWarning, diag.KindResetValueTruncated,
				path, "reset value 0x%X exceeds %d bits, truncated to 0x%X",
				r.ResetValue, r.SizeBits, r.ResetValue&max))
			r.ResetValue &= max
		}
	}

	// Fields extending past the register cannot be laid out at all; they are
	// dropped so the survivors still tile.
	kept := r.Fields[:0]
	for _, f := range r.Fields {
		if f.End() > r.SizeBits {
			v.rep.Report(diag.New(diag.SeverityError, diag.KindFieldOutOfBounds,
				diag.JoinPath(path, f.Name),
				"bits [%d, %d) exceed register width %d", f.BitOffset, f.End(), r.SizeBits))
			continue
		}
		kept = append(kept, f)
	}
	r.Fields = kept

	// Fields arrive sorted by bit offset, so a pairwise scan finds every
	// intersecting pair regardless of declaration order.
	for i := 1; i < len(r.Fields); i++ {
		prev, next := r.Fields[i-1], r.Fields[i]
		if prev.End() > next.BitOffset {
			v.rep.Report(diag.New(diag.SeverityWarning, diag.KindFieldOverlap,
				diag.JoinPath(path, next.Name),
				"bits [%d, %d) overlap %s bits [%d, %d)",
				next.BitOffset, next.End(), prev.Name, prev.BitOffset, prev.End()))
		}
	}

	// The planner places an overlapping field at the layout cursor. A field
	// that no longer fits after that correction cannot be emitted, so it is
	// dropped here with a finding instead of vanishing from the layout.
	var cursor uint32
	kept = r.Fields[:0]
	for _, f := range r.Fields {
		start := f.BitOffset
		if start < cursor {
			start = cursor
		}
		if start+f.BitWidth > r.SizeBits {
			v.rep.Report(diag.New(diag.SeverityError, diag.KindFieldOutOfBounds,
				diag.JoinPath(path, f.Name),
				"bits [%d, %d) do not fit in register width %d after overlap correction",
				start, start+f.BitWidth, r.SizeBits))
			continue
		}
		kept = append(kept, f)
		cursor = start + f.BitWidth
	}
	r.Fields = kept
}
