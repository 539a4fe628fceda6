package diag

import (
	"fmt"
	"strings"
	"time"
)

// Finding records a single problem detected during a run.
// CBOR encoding uses integer keys for compactness.
type Finding struct {
	// Timestamp when the finding was raised (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Severity classifies how the pipeline reacted.
	Severity Severity `cbor:"2,keyasint"`

	// Kind identifies the problem class.
	Kind Kind `cbor:"3,keyasint"`

	// Path locates the offending entity, e.g. "STM32F4/GPIOA/MODER/MODE0".
	Path string `cbor:"4,keyasint"`

	// Detail is a human-readable description of the problem.
	Detail string `cbor:"5,keyasint,omitempty"`
}

// New creates a Finding with the current timestamp.
func New(sev Severity, kind Kind, path, format string, args ...any) Finding {
	return Finding{
		Timestamp: time.Now(),
		Severity:  sev,
		Kind:      kind,
		Path:      path,
		Detail:    fmt.Sprintf(format, args...),
	}
}

// String renders the finding in the form "severity kind path: detail".
func (f Finding) String() string {
	s := fmt.Sprintf("%s %s %s", f.Severity, f.Kind, f.Path)
	if f.Detail != "" {
		s += ": " + f.Detail
	}
	return s
}

// JoinPath builds an entity path from its components, skipping empty ones.
func JoinPath(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}

// Severity classifies how the pipeline reacts to a finding.
type Severity uint8

const (
	// SeverityWarning indicates a best-effort correction; processing continues
	// with the entity retained.
	SeverityWarning Severity = 0

	// SeverityError indicates an entity-local failure; the entity is dropped
	// and its siblings continue.
	SeverityError Severity = 1

	// SeverityFatal indicates the whole run is aborted.
	SeverityFatal Severity = 2
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies the problem class of a finding.
type Kind uint8

const (
	// KindInputUnreadable indicates the input could not be read or parsed
	// as a structured tree.
	KindInputUnreadable Kind = 0
	// KindMissingName indicates an entity without a usable name.
	KindMissingName Kind = 1
	// KindMissingBaseAddress indicates a peripheral without a base address.
	KindMissingBaseAddress Kind = 2
	// KindMissingOffset indicates a register without an address offset.
	KindMissingOffset Kind = 3
	// KindMissingBitRange indicates a field with none of the three bit-range
	// notations present.
	KindMissingBitRange Kind = 4
	// KindMalformedRange indicates a bit range that cannot be canonicalized
	// (msb < lsb, unparsable bitRange token, zero width).
	KindMalformedRange Kind = 5
	// KindDuplicateName indicates a second occurrence of a name within one scope.
	KindDuplicateName Kind = 6
	// KindFieldOverlap indicates two fields with intersecting bit ranges.
	KindFieldOverlap Kind = 7
	// KindRegisterOverlap indicates two registers with intersecting byte ranges.
	KindRegisterOverlap Kind = 8
	// KindFieldOutOfBounds indicates a field extending past the register width.
	KindFieldOutOfBounds Kind = 9
	// KindResetValueTruncated indicates a reset value masked down to the
	// register width.
	KindResetValueTruncated Kind = 10
	// KindBadIntegerText indicates unparsable integer text replaced by a default.
	KindBadIntegerText Kind = 11
	// KindUnknownAccessMode indicates an access string outside the supported
	// set, replaced by the inherited default.
	KindUnknownAccessMode Kind = 12
	// KindOddRegisterSize indicates a bit size below 64 that is not a native
	// width, rounded up to the next one.
	KindOddRegisterSize Kind = 13
	// KindNoPeripherals indicates an input with no emittable peripherals.
	KindNoPeripherals Kind = 14
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInputUnreadable:
		return "InputUnreadable"
	case KindMissingName:
		return "MissingName"
	case KindMissingBaseAddress:
		return "MissingBaseAddress"
	case KindMissingOffset:
		return "MissingOffset"
	case KindMissingBitRange:
		return "MissingBitRange"
	case KindMalformedRange:
		return "MalformedRange"
	case KindDuplicateName:
		return "DuplicateName"
	case KindFieldOverlap:
		return "FieldOverlap"
	case KindRegisterOverlap:
		return "RegisterOverlap"
	case KindFieldOutOfBounds:
		return "FieldOutOfBounds"
	case KindResetValueTruncated:
		return "ResetValueTruncated"
	case KindBadIntegerText:
		return "BadIntegerText"
	case KindUnknownAccessMode:
		return "UnknownAccessMode"
	case KindOddRegisterSize:
		return "OddRegisterSize"
	case KindNoPeripherals:
		return "NoPeripherals"
	default:
		return "Unknown"
	}
}
