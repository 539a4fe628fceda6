package svd

import (
	"errors"
	"fmt"
	"regexp"
)

// BitRange is the canonical (offset, width) form of a field's bit span.
// All three source notations are reduced to it at build time and are
// indistinguishable afterward.
type BitRange struct {
	Offset uint32
	Width  uint32
}

// ErrMissingBitRange indicates a field node carrying none of the three
// bit-range notations.
var ErrMissingBitRange = errors.New("no bit-range notation present")

// ErrMalformedRange indicates a bit-range notation that cannot be reduced
// to the canonical form.
var ErrMalformedRange = errors.New("malformed bit range")

// bitRangeToken matches the "[msb:lsb]" and "[bit]" forms.
var bitRangeToken = regexp.MustCompile(`^\[(\d+)(?::(\d+))?\]$`)

// ResolveBitRange reduces whichever bit-range notation is present on the
// field node to the canonical form. Notations are tried in a fixed
// preference order: bitOffset/bitWidth, then lsb/msb, then bitRange.
func ResolveBitRange(field *Node) (BitRange, error) {
	if field.Has("bitOffset") && field.Has("bitWidth") {
		offset, err := ParseUint(field.ChildText("bitOffset"))
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bad bitOffset %q", ErrMalformedRange, field.ChildText("bitOffset"))
		}
		width, err := ParseUint(field.ChildText("bitWidth"))
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bad bitWidth %q", ErrMalformedRange, field.ChildText("bitWidth"))
		}
		if width == 0 {
			return BitRange{}, fmt.Errorf("%w: zero bitWidth", ErrMalformedRange)
		}
		return BitRange{Offset: uint32(offset), Width: uint32(width)}, nil
	}

	if field.Has("lsb") && field.Has("msb") {
		lsb, err := ParseUint(field.ChildText("lsb"))
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bad lsb %q", ErrMalformedRange, field.ChildText("lsb"))
		}
		msb, err := ParseUint(field.ChildText("msb"))
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bad msb %q", ErrMalformedRange, field.ChildText("msb"))
		}
		return fromMsbLsb(msb, lsb)
	}

	if field.Has("bitRange") {
		text := field.ChildText("bitRange")
		m := bitRangeToken.FindStringSubmatch(text)
		if m == nil {
			return BitRange{}, fmt.Errorf("%w: bitRange token %q", ErrMalformedRange, text)
		}
		msb, err := ParseUint(m[1])
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bitRange token %q", ErrMalformedRange, text)
		}
		if m[2] == "" {
			// Single-bit form "[bit]".
			return BitRange{Offset: uint32(msb), Width: 1}, nil
		}
		lsb, err := ParseUint(m[2])
		if err != nil {
			return BitRange{}, fmt.Errorf("%w: bitRange token %q", ErrMalformedRange, text)
		}
		return fromMsbLsb(msb, lsb)
	}

	return BitRange{}, ErrMissingBitRange
}

func fromMsbLsb(msb, lsb uint64) (BitRange, error) {
	if msb < lsb {
		return BitRange{}, fmt.Errorf("%w: msb %d < lsb %d", ErrMalformedRange, msb, lsb)
	}
	return BitRange{Offset: uint32(lsb), Width: uint32(msb - lsb + 1)}, nil
}
