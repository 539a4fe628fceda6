package cppgen

import (
	"fmt"
	"strings"

	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/layout"
	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/svd"
)

// Options configures the emitter.
type Options struct {
	// Tool is the tool version string recorded in the file banner.
	Tool string
}

// Unit is one emitted header: a file name and its full content.
type Unit struct {
	FileName string
	Content  string
}

// Emitter renders peripherals as C++ headers.
type Emitter struct {
	opts Options
}

// NewEmitter creates an Emitter with the given options.
func NewEmitter(opts Options) *Emitter {
	return &Emitter{opts: opts}
}

// EmitDevice renders one unit per peripheral of the device, in document
// order. Peripherals without registers are skipped.
//
// Peripheral identifiers are uniqued on their lowercase form: the emitted
// file name, namespace and macros all erase the source casing, so names
// that differ only by case would otherwise collide.
func (e *Emitter) EmitDevice(dev *svd.Device) []Unit {
	scope := NewScope()
	var units []Unit
	for _, p := range dev.Peripherals {
		if len(p.Registers) == 0 {
			continue
		}
		plan := layout.PlanPeripheral(p)
		units = append(units, e.EmitPeripheral(plan, scope.Unique(strings.ToLower(p.Name))))
	}
	return units
}

// EmitPeripheral renders one peripheral's memory layout as a header.
// ident is the peripheral's normalized, device-unique identifier.
func (e *Emitter) EmitPeripheral(plan layout.PeripheralPlan, ident string) Unit {
	p := plan.Peripheral
	lower := strings.ToLower(ident)
	upper := strings.ToUpper(ident)

	var b strings.Builder
	writePreamble(&b, p, lower, upper, e.opts.Tool)

	regScope := NewScope()
	regIdents := make([]string, len(plan.Spans))
	for i, span := range plan.Spans {
		if span.Padding() {
			continue
		}
		regIdents[i] = regScope.Unique(span.Register.Register.Name)
		writeRegisterUnion(&b, *span.Register, regIdents[i])
	}

	writePeripheralStruct(&b, plan, upper, regIdents)

	fmt.Fprintf(&b, "} // namespace %s_regs\n\n", lower)
	fmt.Fprintf(&b, "#endif // %s_REGS_HPP\n", upper)

	return Unit{
		FileName: lower + "_regs.hpp",
		Content:  b.String(),
	}
}

func writePreamble(b *strings.Builder, p *svd.Peripheral, lower, upper, tool string) {
	fmt.Fprintf(b, "#ifndef %s_REGS_HPP\n", upper)
	fmt.Fprintf(b, "#define %s_REGS_HPP\n\n", upper)
	b.WriteString("#include <cstdint>\n\n")

	b.WriteString("/**\n")
	fmt.Fprintf(b, " * @file %s_regs.hpp\n", lower)
	fmt.Fprintf(b, " * @brief %s\n", blockText(p.Description))
	if tool != "" {
		fmt.Fprintf(b, " * @details Generated by svd2cpp %s - DO NOT EDIT MANUALLY\n", tool)
	} else {
		b.WriteString(" * @details Generated from SVD file - DO NOT EDIT MANUALLY\n")
	}
	b.WriteString(" *\n")
	fmt.Fprintf(b, " * Base Address: 0x%08X\n", p.BaseAddress)
	b.WriteString(" */\n\n")

	fmt.Fprintf(b, "namespace %s_regs {\n\n", lower)
}

func writeRegisterUnion(b *strings.Builder, plan layout.RegisterPlan, ident string) {
	r := plan.Register

	b.WriteString("/**\n")
	fmt.Fprintf(b, " * @brief %s\n", blockText(r.Description))
	fmt.Fprintf(b, " * @details Offset: 0x%04X, Size: %d bytes\n", r.AddressOffset, plan.SizeBytes())
	fmt.Fprintf(b, " * @details Reset value: 0x%08X\n", r.ResetValue)
	fmt.Fprintf(b, " * @details Access: %s\n", r.Access)
	b.WriteString(" */\n")

	fmt.Fprintf(b, "union %s_t {\n", ident)

	if plan.Opaque {
		// No native integer holds the register; byte-array view only.
		fmt.Fprintf(b, "    uint8_t raw[%d];\n", plan.SizeBytes())
	} else {
		cpp := cppType(plan.NativeBits)
		fmt.Fprintf(b, "    %s raw;\n", cpp)

		if len(r.Fields) > 0 {
			b.WriteString("    struct {\n")
			fieldScope := NewScope()
			for _, span := range plan.Spans {
				if span.Padding() {
					fmt.Fprintf(b, "        %s : %d;\n", cpp, span.Width)
					continue
				}
				if span.Field.Description != "" {
					fmt.Fprintf(b, "        /// %s\n", lineText(span.Field.Description))
				}
				fmt.Fprintf(b, "        %s %s : %d;\n", cpp, fieldScope.Unique(span.Field.Name), span.Width)
			}
			b.WriteString("    } bits;\n")
		}
	}

	b.WriteString("};\n\n")

	fmt.Fprintf(b, "static_assert(sizeof(%s_t) == %d, \"Size mismatch for %s_t\");\n\n",
		ident, plan.SizeBytes(), ident)
}

func writePeripheralStruct(b *strings.Builder, plan layout.PeripheralPlan, upper string, regIdents []string) {
	p := plan.Peripheral

	b.WriteString("/**\n")
	fmt.Fprintf(b, " * @brief %s register block\n", blockText(p.Description))
	fmt.Fprintf(b, " * @details Base address: 0x%08X\n", p.BaseAddress)
	b.WriteString(" */\n")

	fmt.Fprintf(b, "struct %s_regs_t {\n", upper)
	reserved := 0
	for i, span := range plan.Spans {
		if span.Padding() {
			fmt.Fprintf(b, "    uint8_t _reserved_%03d[%d];\n", reserved, span.Size)
			reserved++
			continue
		}
		fmt.Fprintf(b, "    volatile %s_t %s;\n", regIdents[i], regIdents[i])
	}
	b.WriteString("};\n\n")

	fmt.Fprintf(b, "static_assert(sizeof(%s_regs_t) == %d, \"Size mismatch for %s_regs_t\");\n\n",
		upper, plan.AlignedFootprint(), upper)

	b.WriteString("// Memory-mapped peripheral instance\n")
	fmt.Fprintf(b, "#define %s_REGS (reinterpret_cast<volatile %s_regs_t*>(0x%08XU))\n\n",
		upper, upper, p.BaseAddress)
}

// cppType returns the unsigned integer type of the given native bit width.
func cppType(bits uint32) string {
	return fmt.Sprintf("uint%d_t", bits)
}

// blockText prepares description text for a block comment: newlines are
// flattened and any "*/" sequence is broken so it cannot terminate the
// comment early.
func blockText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "*/", "* /")
}

// lineText prepares description text for a "///" line comment.
func lineText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
