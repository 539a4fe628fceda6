package svd

import (
	"fmt"
)

// AccessMode is a register or field access mode.
type AccessMode uint8

const (
	// AccessReadWrite allows reads and writes. This is the ultimate default.
	AccessReadWrite AccessMode = 0

	// AccessReadOnly allows reads only.
	AccessReadOnly AccessMode = 1

	// AccessWriteOnly allows writes only.
	AccessWriteOnly AccessMode = 2
)

// String returns the SVD spelling of the access mode.
func (a AccessMode) String() string {
	switch a {
	case AccessReadOnly:
		return "read-only"
	case AccessWriteOnly:
		return "write-only"
	case AccessReadWrite:
		return "read-write"
	default:
		return "read-write"
	}
}

// ParseAccessMode parses an SVD access string. The second return value is
// false for anything outside the supported set.
func ParseAccessMode(s string) (AccessMode, bool) {
	switch s {
	case "read-only":
		return AccessReadOnly, true
	case "write-only":
		return AccessWriteOnly, true
	case "read-write":
		return AccessReadWrite, true
	default:
		return AccessReadWrite, false
	}
}

// Device is the root of the model: a named chip with default register
// properties and an ordered set of peripherals.
type Device struct {
	Name        string
	Description string

	// DefaultSize is the register bit size used when a register declares none.
	DefaultSize uint32

	// DefaultAccess is the access mode used when no narrower scope declares one.
	DefaultAccess AccessMode

	// DefaultResetValue is the reset value used when a register declares none.
	DefaultResetValue uint64

	// Peripherals, in document order. Names are unique within the device.
	Peripherals []*Peripheral
}

// Peripheral is a named hardware unit with a base address and an ordered
// sequence of registers sorted by address offset.
type Peripheral struct {
	Name        string
	Description string

	// BaseAddress in the device address space.
	BaseAddress uint64

	// DefaultAccess is the inherited access mode for registers of this
	// peripheral that declare none.
	DefaultAccess AccessMode

	// Registers sorted by ascending address offset. Offsets are relative
	// to BaseAddress.
	Registers []*Register
}

// Register is an addressable fixed-size storage unit within a peripheral.
type Register struct {
	Name        string
	Description string

	// AddressOffset in bytes, relative to the peripheral base address.
	AddressOffset uint64

	// SizeBits is the declared register width in bits.
	SizeBits uint32

	// Access mode, inherited from the peripheral/device default when the
	// register declares none.
	Access AccessMode

	// ResetValue, already bounded to SizeBits.
	ResetValue uint64

	// Fields sorted by ascending bit offset.
	Fields []*Field
}

// SizeBytes returns the register size in bytes.
func (r *Register) SizeBytes() uint64 {
	return uint64(r.SizeBits+7) / 8
}

// End returns the first byte offset past the register.
func (r *Register) End() uint64 {
	return r.AddressOffset + r.SizeBytes()
}

// Field is a named fixed-width bit span within a register.
type Field struct {
	Name        string
	Description string

	// BitOffset is the position of the least significant bit.
	BitOffset uint32

	// BitWidth is the span width in bits, always >= 1.
	BitWidth uint32

	// Access mode, defaulting to the owning register's.
	Access AccessMode
}

// End returns the first bit position past the field.
func (f *Field) End() uint32 {
	return f.BitOffset + f.BitWidth
}

// Mask returns the field's bit mask within the register.
func (f *Field) Mask() uint64 {
	width := uint64(1)<<f.BitWidth - 1
	return width << f.BitOffset
}

// NewPeripheral creates a peripheral, rejecting an empty name.
func NewPeripheral(name, description string, baseAddress uint64, access AccessMode) (*Peripheral, error) {
	if name == "" {
		return nil, fmt.Errorf("peripheral has no name")
	}
	return &Peripheral{
		Name:          name,
		Description:   description,
		BaseAddress:   baseAddress,
		DefaultAccess: access,
	}, nil
}

// NewRegister creates a register, rejecting an empty name or a zero size.
func NewRegister(name, description string, offset uint64, sizeBits uint32, access AccessMode, resetValue uint64) (*Register, error) {
	if name == "" {
		return nil, fmt.Errorf("register has no name")
	}
	if sizeBits == 0 {
		return nil, fmt.Errorf("register %s has zero size", name)
	}
	return &Register{
		Name:          name,
		Description:   description,
		AddressOffset: offset,
		SizeBits:      sizeBits,
		Access:        access,
		ResetValue:    resetValue,
	}, nil
}

// NewField creates a field, rejecting an empty name or a zero width.
// Zero-width fields are unrepresentable in the model.
func NewField(name, description string, r BitRange, access AccessMode) (*Field, error) {
	if name == "" {
		return nil, fmt.Errorf("field has no name")
	}
	if r.Width == 0 {
		return nil, fmt.Errorf("field %s has zero width", name)
	}
	return &Field{
		Name:        name,
		Description: description,
		BitOffset:   r.Offset,
		BitWidth:    r.Width,
		Access:      access,
	}, nil
}
