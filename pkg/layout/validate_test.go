package layout

import (
	"sort"
	"testing"

	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/diag"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
)

// reg builds a register with its fields sorted by bit offset, the order the
// model builder guarantees.
func reg(name string, offset uint64, sizeBits uint32, fields ...*svd.Field) *svd.Register {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].BitOffset < fields[j].BitOffset
	})
	return &svd.Register{
		Name:          name,
		AddressOffset: offset,
		SizeBits:      sizeBits,
		Fields:        fields,
	}
}

func field(name string, offset, width uint32) *svd.Field {
	return &svd.Field{Name: name, BitOffset: offset, BitWidth: width}
}

func validate(t *testing.T, r *svd.Register) *diag.Collector {
	t.Helper()
	col := &diag.Collector{}
	NewValidator(col).validateRegister(r, "DEV/P/"+r.Name)
	return col
}

func TestNativeWidth(t *testing.T) {
	cases := []struct {
		bits uint32
		want uint32
		ok   bool
	}{
		{1, 8, true}, {8, 8, true}, {9, 16, true}, {16, 16, true},
		{17, 32, true}, {32, 32, true}, {33, 64, true}, {64, 64, true},
		{65, 0, false}, {128, 0, false}, {0, 0, false},
	}
	for _, tc := range cases {
		got, ok := NativeWidth(tc.bits)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NativeWidth(%d) = %d, %v, want %d, %v", tc.bits, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidateRegister_FieldOverlapBothOrders(t *testing.T) {
	// Overlap of [0, 4) and [2, 6) must be found regardless of declaration
	// order, and both fields stay in the model.
	for _, declOrder := range [][]*svd.Field{
		{field("LOW", 0, 4), field("HIGH", 2, 4)},
		{field("HIGH", 2, 4), field("LOW", 0, 4)},
	} {
		r := reg("CTRL", 0, 32, declOrder...)
		col := validate(t, r)

		overlaps := col.ByKind(diag.KindFieldOverlap)
		if len(overlaps) != 1 {
			t.Fatalf("FieldOverlap findings = %d, want 1", len(overlaps))
		}
		if overlaps[0].Severity != diag.SeverityWarning {
			t.Errorf("severity = %v, want warning", overlaps[0].Severity)
		}
		if len(r.Fields) != 2 {
			t.Errorf("len(fields) = %d, want both retained", len(r.Fields))
		}
	}
}

func TestValidateRegister_AdjacentFieldsNoOverlap(t *testing.T) {
	r := reg("CTRL", 0, 32, field("A", 0, 4), field("B", 4, 4))
	col := validate(t, r)
	if n := len(col.Findings()); n != 0 {
		t.Errorf("findings = %d, want 0: %v", n, col.Findings())
	}
}

func TestValidateRegister_OutOfBoundsFieldDropped(t *testing.T) {
	r := reg("CTRL", 0, 16, field("OK", 0, 8), field("WIDE", 8, 16))
	col := validate(t, r)

	if len(r.Fields) != 1 || r.Fields[0].Name != "OK" {
		t.Fatalf("fields = %+v, want only OK", r.Fields)
	}
	oob := col.ByKind(diag.KindFieldOutOfBounds)
	if len(oob) != 1 {
		t.Fatalf("FieldOutOfBounds findings = %d, want 1", len(oob))
	}
	if oob[0].Severity != diag.SeverityError {
		t.Errorf("severity = %v, want error", oob[0].Severity)
	}
}

func TestValidateRegister_ResetValueTruncated(t *testing.T) {
	r := reg("CTRL", 0, 8)
	r.ResetValue = 0x1FF
	col := validate(t, r)

	if r.ResetValue != 0xFF {
		t.Errorf("reset value = 0x%X, want truncated 0xFF", r.ResetValue)
	}
	if n := len(col.ByKind(diag.KindResetValueTruncated)); n != 1 {
		t.Errorf("ResetValueTruncated findings = %d, want 1", n)
	}
}

func TestValidateRegister_ResetValueInBoundsUntouched(t *testing.T) {
	r := reg("CTRL", 0, 8)
	r.ResetValue = 0xFF
	col := validate(t, r)

	if r.ResetValue != 0xFF {
		t.Errorf("reset value = 0x%X, want 0xFF unmodified", r.ResetValue)
	}
	if n := len(col.Findings()); n != 0 {
		t.Errorf("findings = %d, want 0", n)
	}
}

func TestValidateRegister_OverlapCorrectionOverflowDropped(t *testing.T) {
	// Repositioning overlapping fields at the layout cursor can push a later
	// field past the register end. Such a field must be dropped with a
	// finding, never silently left out of the layout.
	r := reg("CTRL", 0, 32,
		field("A", 0, 10),
		field("B", 8, 10), // overlaps A, repositioned to bit 10
		field("C", 9, 23), // declared end 32 fits, but cursor 20 + 23 > 32
	)
	col := validate(t, r)

	if len(r.Fields) != 2 || r.Fields[0].Name != "A" || r.Fields[1].Name != "B" {
		t.Fatalf("fields = %+v, want A and B", r.Fields)
	}
	oob := col.ByKind(diag.KindFieldOutOfBounds)
	if len(oob) != 1 {
		t.Fatalf("FieldOutOfBounds findings = %d, want 1", len(oob))
	}
	if oob[0].Path != "DEV/P/CTRL/C" {
		t.Errorf("finding path = %q, want DEV/P/CTRL/C", oob[0].Path)
	}
	if oob[0].Severity != diag.SeverityError {
		t.Errorf("severity = %v, want error", oob[0].Severity)
	}
	if n := len(col.ByKind(diag.KindFieldOverlap)); n != 2 {
		t.Errorf("FieldOverlap findings = %d, want 2", n)
	}

	// The survivors still tile the register.
	plan := PlanRegister(r)
	checkTiling(t, plan, 32)
	for _, s := range plan.Spans {
		if !s.Padding() && s.Field.Name == "C" {
			t.Error("dropped field C appeared in the plan")
		}
	}
}

func TestValidateRegister_OddSizeRoundedUp(t *testing.T) {
	r := reg("CTRL", 0, 24)
	col := validate(t, r)

	if r.SizeBits != 32 {
		t.Errorf("size = %d, want rounded to 32", r.SizeBits)
	}
	if n := len(col.ByKind(diag.KindOddRegisterSize)); n != 1 {
		t.Errorf("OddRegisterSize findings = %d, want 1", n)
	}
}

func TestValidateRegister_OpaqueSkipsFieldChecks(t *testing.T) {
	// A 128-bit register has no bit view, so no field-level findings may be
	// raised even for fields that would otherwise overlap or overflow.
	r := reg("KEY", 0, 128, field("A", 0, 64), field("B", 32, 64), field("C", 120, 64))
	col := validate(t, r)

	if n := len(col.Findings()); n != 0 {
		t.Errorf("findings = %d, want 0 for opaque register: %v", n, col.Findings())
	}
	if len(r.Fields) != 3 {
		t.Errorf("len(fields) = %d, want all retained", len(r.Fields))
	}
}

func TestValidatePeripheral_RegisterOverlap(t *testing.T) {
	p := &svd.Peripheral{
		Name:        "GPIO",
		BaseAddress: 0x40000000,
		Registers: []*svd.Register{
			reg("A", 0x00, 32),
			reg("B", 0x02, 32), // bytes [2, 6) overlap A's [0, 4)
			reg("C", 0x08, 32),
		},
	}
	col := &diag.Collector{}
	NewValidator(col).validatePeripheral(p, "DEV/GPIO")

	overlaps := col.ByKind(diag.KindRegisterOverlap)
	if len(overlaps) != 1 {
		t.Fatalf("RegisterOverlap findings = %d, want 1", len(overlaps))
	}
	if overlaps[0].Path != "DEV/GPIO/B" {
		t.Errorf("finding path = %q, want DEV/GPIO/B", overlaps[0].Path)
	}
	if len(p.Registers) != 3 {
		t.Errorf("len(registers) = %d, want all retained", len(p.Registers))
	}
}
