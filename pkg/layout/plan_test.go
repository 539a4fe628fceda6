package layout

import (
	"testing"

	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
)

// checkTiling asserts that the spans cover [0, sizeBits) in order with no
// gaps and no overlaps.
func checkTiling(t *testing.T, plan RegisterPlan, sizeBits uint32) {
	t.Helper()
	var sum uint32
	for i, s := range plan.Spans {
		if s.Width == 0 {
			t.Errorf("span %d has zero width", i)
		}
		sum += s.Width
	}
	if sum != sizeBits {
		t.Errorf("span widths sum to %d, want %d", sum, sizeBits)
	}
}

func TestPlanRegister_FieldsAndPadding(t *testing.T) {
	r := reg("MODE", 0, 32,
		field("MODE0", 0, 2),
		field("MODE1", 2, 2),
		field("MODE3", 8, 2), // gap at [4, 8)
	)
	plan := PlanRegister(r)

	if plan.Opaque {
		t.Fatal("plan is opaque, want bit view")
	}
	if plan.NativeBits != 32 {
		t.Errorf("native bits = %d, want 32", plan.NativeBits)
	}
	if plan.SizeBytes() != 4 {
		t.Errorf("size bytes = %d, want 4", plan.SizeBytes())
	}

	want := []struct {
		name  string // "" for padding
		width uint32
	}{
		{"MODE0", 2}, {"MODE1", 2}, {"", 4}, {"MODE3", 2}, {"", 22},
	}
	if len(plan.Spans) != len(want) {
		t.Fatalf("len(spans) = %d, want %d: %+v", len(plan.Spans), len(want), plan.Spans)
	}
	for i, w := range want {
		s := plan.Spans[i]
		if s.Width != w.width {
			t.Errorf("span %d width = %d, want %d", i, s.Width, w.width)
		}
		if (w.name == "") != s.Padding() {
			t.Errorf("span %d padding = %v, want %v", i, s.Padding(), w.name == "")
		}
		if w.name != "" && s.Field.Name != w.name {
			t.Errorf("span %d field = %q, want %q", i, s.Field.Name, w.name)
		}
	}
	checkTiling(t, plan, 32)
}

func TestPlanRegister_NoFields(t *testing.T) {
	plan := PlanRegister(reg("RAW", 0, 16))
	if len(plan.Spans) != 1 || !plan.Spans[0].Padding() || plan.Spans[0].Width != 16 {
		t.Errorf("spans = %+v, want single 16-bit padding span", plan.Spans)
	}
}

func TestPlanRegister_OverlapPlacedAtCursor(t *testing.T) {
	// Overlapping fields survive validation as warnings. The planner places
	// the second at the cursor so the tiling still holds.
	r := reg("CTRL", 0, 16,
		field("LOW", 0, 8),
		field("MID", 4, 4), // overlaps LOW, repositioned to bit 8
	)
	plan := PlanRegister(r)

	if len(plan.Spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3: %+v", len(plan.Spans), plan.Spans)
	}
	if plan.Spans[1].Field == nil || plan.Spans[1].Field.Name != "MID" {
		t.Errorf("span 1 = %+v, want field MID", plan.Spans[1])
	}
	checkTiling(t, plan, 16)
}

func TestPlanRegister_OverlapPastEndSkipped(t *testing.T) {
	// When repositioning would push a field past the register end, the field
	// is left out of the layout rather than breaking the tiling.
	r := reg("CTRL", 0, 16,
		field("LOW", 0, 12),
		field("WIDE", 8, 8), // cursor 12 + 8 > 16
	)
	plan := PlanRegister(r)

	for _, s := range plan.Spans {
		if !s.Padding() && s.Field.Name == "WIDE" {
			t.Error("WIDE placed despite exceeding register width")
		}
	}
	checkTiling(t, plan, 16)
}

func TestPlanRegister_Opaque(t *testing.T) {
	r := reg("KEY", 0, 128, field("A", 0, 64))
	plan := PlanRegister(r)

	if !plan.Opaque {
		t.Fatal("plan not opaque for 128-bit register")
	}
	if plan.SizeBytes() != 16 {
		t.Errorf("size bytes = %d, want 16", plan.SizeBytes())
	}
	if len(plan.Spans) != 0 {
		t.Errorf("spans = %+v, want none for opaque register", plan.Spans)
	}
}

func TestPlanPeripheral_GapsAndFootprint(t *testing.T) {
	p := &svd.Peripheral{
		Name:        "GPIO",
		BaseAddress: 0x40020000,
		Registers: []*svd.Register{
			reg("MODE", 0x00, 32),
			reg("IDR", 0x10, 32), // gap [0x04, 0x10)
			reg("ODR", 0x14, 32),
		},
	}
	plan := PlanPeripheral(p)

	want := []struct {
		name   string // "" for padding
		offset uint64
		size   uint64
	}{
		{"MODE", 0x00, 4}, {"", 0x04, 12}, {"IDR", 0x10, 4}, {"ODR", 0x14, 4},
	}
	if len(plan.Spans) != len(want) {
		t.Fatalf("len(spans) = %d, want %d: %+v", len(plan.Spans), len(want), plan.Spans)
	}
	for i, w := range want {
		s := plan.Spans[i]
		if s.Offset != w.offset || s.Size != w.size {
			t.Errorf("span %d = {0x%X, %d}, want {0x%X, %d}", i, s.Offset, s.Size, w.offset, w.size)
		}
		if (w.name == "") != s.Padding() {
			t.Errorf("span %d padding = %v, want %v", i, s.Padding(), w.name == "")
		}
		if w.name != "" && s.Register.Register.Name != w.name {
			t.Errorf("span %d register = %q, want %q", i, s.Register.Register.Name, w.name)
		}
	}
	if plan.Footprint != 0x18 {
		t.Errorf("footprint = 0x%X, want 0x18", plan.Footprint)
	}
	if plan.Alignment != 4 {
		t.Errorf("alignment = %d, want 4", plan.Alignment)
	}
	if plan.AlignedFootprint() != 0x18 {
		t.Errorf("aligned footprint = 0x%X, want 0x18", plan.AlignedFootprint())
	}
}

func TestPlanPeripheral_AlignedFootprint(t *testing.T) {
	// A 64-bit member forces 8-byte alignment; a trailing 8-bit register
	// leaves the footprint at 9 bytes which the ABI pads to 16.
	p := &svd.Peripheral{
		Name:        "TIMER",
		BaseAddress: 0x40001000,
		Registers: []*svd.Register{
			reg("COUNT", 0x0, 64),
			reg("CTL", 0x8, 8),
		},
	}
	plan := PlanPeripheral(p)

	if plan.Footprint != 9 {
		t.Errorf("footprint = %d, want 9", plan.Footprint)
	}
	if plan.Alignment != 8 {
		t.Errorf("alignment = %d, want 8", plan.Alignment)
	}
	if plan.AlignedFootprint() != 16 {
		t.Errorf("aligned footprint = %d, want 16", plan.AlignedFootprint())
	}
}

func TestPlanPeripheral_OpaqueAlignmentIsOne(t *testing.T) {
	p := &svd.Peripheral{
		Name:        "CRYPTO",
		BaseAddress: 0x50000000,
		Registers:   []*svd.Register{reg("KEY", 0, 128)},
	}
	plan := PlanPeripheral(p)

	if plan.Alignment != 1 {
		t.Errorf("alignment = %d, want 1 for opaque-only peripheral", plan.Alignment)
	}
	if plan.Footprint != 16 {
		t.Errorf("footprint = %d, want 16", plan.Footprint)
	}
	if plan.AlignedFootprint() != 16 {
		t.Errorf("aligned footprint = %d, want 16", plan.AlignedFootprint())
	}
}
