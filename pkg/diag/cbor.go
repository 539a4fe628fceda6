package diag

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// repEncMode is the CBOR encoder mode for report records.
// Configured for nanosecond-precision timestamps and deterministic encoding.
var repEncMode cbor.EncMode

// repDecMode is the CBOR decoder mode for report records.
var repDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano, // Nanosecond precision
	}
	repEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create report CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	repDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create report CBOR decoder mode: %v", err))
	}
}

// EncodeFinding encodes a Finding to CBOR bytes using integer keys.
func EncodeFinding(f Finding) ([]byte, error) {
	return repEncMode.Marshal(f)
}

// DecodeFinding decodes CBOR bytes into a Finding.
func DecodeFinding(data []byte) (Finding, error) {
	var f Finding
	if err := repDecMode.Unmarshal(data, &f); err != nil {
		return Finding{}, err
	}
	return f, nil
}

// NewEncoder creates a CBOR encoder for report records that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return repEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for report records that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return repDecMode.NewDecoder(r)
}
