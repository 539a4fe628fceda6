package layout

import (
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
)

// BitSpan is one element of a register's bit layout: a named field, or
// synthesized padding when Field is nil.
type BitSpan struct {
	Field *svd.Field
	Width uint32
}

// Padding reports whether the span is synthesized filler.
func (s BitSpan) Padding() bool { return s.Field == nil }

// RegisterPlan is the derived bit layout of one register.
type RegisterPlan struct {
	Register *svd.Register

	// Opaque is true for registers wider than MaxBitViewWidth: no native
	// integer type holds them, so they get a byte-array view only.
	Opaque bool

	// NativeBits is the selected storage width in bits (0 when opaque).
	NativeBits uint32

	// Spans tile [0, Register.SizeBits) in order, with no gaps and no
	// overlaps, when the register has fields and is not opaque.
	Spans []BitSpan
}

// SizeBytes returns the byte size of the emitted container: the native
// width for bit-view registers, the declared byte length for opaque ones.
func (p RegisterPlan) SizeBytes() uint64 {
	if p.Opaque {
		return p.Register.SizeBytes()
	}
	return uint64(p.NativeBits / 8)
}

// ByteSpan is one element of a peripheral's memory layout: a planned
// register, or synthesized padding when Register is nil.
type ByteSpan struct {
	Register *RegisterPlan
	Offset   uint64
	Size     uint64
}

// Padding reports whether the span is synthesized filler.
func (s ByteSpan) Padding() bool { return s.Register == nil }

// PeripheralPlan is the derived memory layout of one peripheral.
type PeripheralPlan struct {
	Peripheral *svd.Peripheral

	// Spans tile [0, Footprint) in address order.
	Spans []ByteSpan

	// Footprint is the end of the last register, relative to the base address.
	Footprint uint64

	// Alignment is the container's natural alignment: the widest native
	// member width in bytes (1 for a peripheral of only opaque registers).
	Alignment uint64
}

// AlignedFootprint returns the footprint rounded up to the container's
// natural alignment. This is the value the emitted size assertion compares
// against, since the target ABI pads the container to its alignment.
func (p PeripheralPlan) AlignedFootprint() uint64 {
	if p.Alignment <= 1 {
		return p.Footprint
	}
	return (p.Footprint + p.Alignment - 1) / p.Alignment * p.Alignment
}

// PlanRegister computes the ordered bit layout of a validated register:
// explicit fields plus synthesized padding, tiling the full bit width.
func PlanRegister(r *svd.Register) RegisterPlan {
	native, ok := NativeWidth(r.SizeBits)
	if !ok {
		return RegisterPlan{Register: r, Opaque: true}
	}

	plan := RegisterPlan{Register: r, NativeBits: native}

	var cursor uint32
	for _, f := range r.Fields {
		if f.BitOffset > cursor {
			plan.Spans = append(plan.Spans, BitSpan{Width: f.BitOffset - cursor})
			cursor = f.BitOffset
		}
		// A field starting below the cursor was reported as an overlap by the
		// validator; it is placed at the cursor so the tiling holds. The
		// validator already drops (with a finding) any field this correction
		// would push past the register end; the guard protects callers
		// planning an unvalidated model.
		if cursor+f.BitWidth > r.SizeBits {
			continue
		}
		plan.Spans = append(plan.Spans, BitSpan{Field: f, Width: f.BitWidth})
		cursor += f.BitWidth
	}
	if cursor < r.SizeBits {
		plan.Spans = append(plan.Spans, BitSpan{Width: r.SizeBits - cursor})
	}

	return plan
}

// PlanPeripheral computes the ordered memory layout of a validated
// peripheral: explicit registers plus synthesized byte padding, tiling
// [0, end of last register).
func PlanPeripheral(p *svd.Peripheral) PeripheralPlan {
	plan := PeripheralPlan{Peripheral: p, Alignment: 1}

	var cursor uint64
	for _, r := range p.Registers {
		rp := PlanRegister(r)
		if !rp.Opaque && uint64(rp.NativeBits/8) > plan.Alignment {
			plan.Alignment = uint64(rp.NativeBits / 8)
		}
		if r.AddressOffset > cursor {
			plan.Spans = append(plan.Spans, ByteSpan{
				Offset: cursor,
				Size:   r.AddressOffset - cursor,
			})
			cursor = r.AddressOffset
		}
		// An overlapping register was reported by the validator; it is placed
		// at the cursor so the tiling holds.
		plan.Spans = append(plan.Spans, ByteSpan{
			Register: &rp,
			Offset:   cursor,
			Size:     rp.SizeBytes(),
		})
		cursor += rp.SizeBytes()
	}
	plan.Footprint = cursor

	return plan
}
