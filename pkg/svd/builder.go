package svd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MatejGomboc-Claude-MCP/svd2cpp/pkg/diag"
)

// nameAliases are the accepted tag spellings of the name concept. Some SVD
// dialects abbreviate the tag, so lookups tolerate both.
var nameAliases = []string{"name", "n"}

// Builder walks a generic node tree and produces the typed device model.
// Findings are delivered to the configured reporter; only fatal problems
// surface as errors.
type Builder struct {
	rep diag.Reporter
}

// NewBuilder creates a Builder reporting to rep. A nil rep disables reporting.
func NewBuilder(rep diag.Reporter) *Builder {
	if rep == nil {
		rep = diag.NoopReporter{}
	}
	return &Builder{rep: rep}
}

// Parse parses an SVD document from data and builds the device model.
func Parse(data []byte, rep diag.Reporter) (*Device, error) {
	root, err := ParseTree(bytes.NewReader(data))
	if err != nil {
		if rep != nil {
			rep.Report(diag.New(diag.SeverityFatal, diag.KindInputUnreadable, "", "%v", err))
		}
		return nil, err
	}
	return NewBuilder(rep).Build(root)
}

// Load reads and parses an SVD document from a file and builds the device model.
func Load(path string, rep diag.Reporter) (*Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if rep != nil {
			rep.Report(diag.New(diag.SeverityFatal, diag.KindInputUnreadable, "", "%v", err))
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, rep)
}

// Build produces the device model from a parsed node tree.
// The returned error is non-nil only for fatal findings; entity-local
// failures drop the one entity and continue with its siblings.
func (b *Builder) Build(root *Node) (*Device, error) {
	devNode := root
	if devNode.Tag != "device" {
		if d := root.Find("device"); d != nil {
			devNode = d
		}
	}

	name := devNode.ChildText(nameAliases...)
	if name == "" {
		err := errors.New("device has no name")
		b.rep.Report(diag.New(diag.SeverityFatal, diag.KindMissingName, "", "%v", err))
		return nil, err
	}

	dev := &Device{
		Name:          name,
		Description:   decodeDescription(devNode.ChildText("description")),
		DefaultSize:   32,
		DefaultAccess: AccessReadWrite,
	}
	dev.DefaultSize = uint32(b.intOr(devNode, dev.Name, uint64(dev.DefaultSize), "size"))
	dev.DefaultAccess = b.accessOr(devNode, dev.Name, dev.DefaultAccess)
	dev.DefaultResetValue = b.intOr(devNode, dev.Name, 0, "resetValue")

	seen := make(map[string]bool)
	peripheralsNode := devNode.Find("peripherals")
	if peripheralsNode != nil {
		for _, pn := range peripheralsNode.FindAll("peripheral") {
			p := b.buildPeripheral(pn, dev)
			if p == nil {
				continue
			}
			if seen[p.Name] {
				b.rep.Report(diag.New(diag.SeverityError, diag.KindDuplicateName,
					diag.JoinPath(dev.Name, p.Name), "duplicate peripheral name"))
				continue
			}
			seen[p.Name] = true
			dev.Peripherals = append(dev.Peripherals, p)
		}
	}

	return dev, nil
}

func (b *Builder) buildPeripheral(pn *Node, dev *Device) *Peripheral {
	name := pn.ChildText(nameAliases...)
	if name == "" {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingName,
			dev.Name, "peripheral has no name"))
		return nil
	}
	path := diag.JoinPath(dev.Name, name)

	baseNode := pn.Find("baseAddress")
	if baseNode == nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingBaseAddress,
			path, "peripheral has no base address"))
		return nil
	}
	base, err := ParseUint(baseNode.Text)
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindBadIntegerText,
			path, "base address: %v", err))
		return nil
	}

	p, err := NewPeripheral(name, decodeDescription(pn.ChildText("description")), base,
		b.accessOr(pn, path, dev.DefaultAccess))
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingName, dev.Name, "%v", err))
		return nil
	}

	seen := make(map[string]bool)
	registersNode := pn.Find("registers")
	if registersNode != nil {
		for _, rn := range registersNode.FindAll("register") {
			r := b.buildRegister(rn, p, dev, path)
			if r == nil {
				continue
			}
			if seen[r.Name] {
				b.rep.Report(diag.New(diag.SeverityError, diag.KindDuplicateName,
					diag.JoinPath(path, r.Name), "duplicate register name"))
				continue
			}
			seen[r.Name] = true
			p.Registers = append(p.Registers, r)
		}
	}

	// Memory layout is derived in address order.
	sort.SliceStable(p.Registers, func(i, j int) bool {
		return p.Registers[i].AddressOffset < p.Registers[j].AddressOffset
	})

	return p
}

func (b *Builder) buildRegister(rn *Node, p *Peripheral, dev *Device, parentPath string) *Register {
	name := rn.ChildText(nameAliases...)
	if name == "" {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingName,
			parentPath, "register has no name"))
		return nil
	}
	path := diag.JoinPath(parentPath, name)

	offsetNode := rn.Find("addressOffset", "offset")
	if offsetNode == nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingOffset,
			path, "register has no address offset"))
		return nil
	}
	offset, err := ParseUint(offsetNode.Text)
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindBadIntegerText,
			path, "address offset: %v", err))
		return nil
	}

	size := uint32(b.intOr(rn, path, uint64(dev.DefaultSize), "size"))
	access := b.accessOr(rn, path, p.DefaultAccess)
	reset := b.intOr(rn, path, dev.DefaultResetValue, "resetValue")

	r, err := NewRegister(name, decodeDescription(rn.ChildText("description")), offset, size, access, reset)
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMalformedRange, path, "%v", err))
		return nil
	}

	seen := make(map[string]bool)
	fieldsNode := rn.Find("fields")
	if fieldsNode != nil {
		for _, fn := range fieldsNode.FindAll("field") {
			f := b.buildField(fn, r, path)
			if f == nil {
				continue
			}
			if seen[f.Name] {
				b.rep.Report(diag.New(diag.SeverityError, diag.KindDuplicateName,
					diag.JoinPath(path, f.Name), "duplicate field name"))
				continue
			}
			seen[f.Name] = true
			r.Fields = append(r.Fields, f)
		}
	}

	// Bit layout is derived in bit-offset order.
	sort.SliceStable(r.Fields, func(i, j int) bool {
		return r.Fields[i].BitOffset < r.Fields[j].BitOffset
	})

	return r
}

func (b *Builder) buildField(fn *Node, r *Register, parentPath string) *Field {
	name := fn.ChildText(nameAliases...)
	if name == "" {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMissingName,
			parentPath, "field has no name"))
		return nil
	}
	path := diag.JoinPath(parentPath, name)

	br, err := ResolveBitRange(fn)
	if err != nil {
		kind := diag.KindMalformedRange
		if errors.Is(err, ErrMissingBitRange) {
			kind = diag.KindMissingBitRange
		}
		b.rep.Report(diag.New(diag.SeverityError, kind, path, "%v", err))
		return nil
	}

	f, err := NewField(name, decodeDescription(fn.ChildText("description")), br,
		b.accessOr(fn, path, r.Access))
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityError, diag.KindMalformedRange, path, "%v", err))
		return nil
	}
	return f
}

// intOr extracts an integer child value. A missing child yields the default
// silently; unparseable text yields the default with a warning.
func (b *Builder) intOr(n *Node, path string, def uint64, aliases ...string) uint64 {
	c := n.Find(aliases...)
	if c == nil {
		return def
	}
	v, err := ParseUint(c.Text)
	if err != nil {
		b.rep.Report(diag.New(diag.SeverityWarning, diag.KindBadIntegerText,
			path, "<%s>: %v, using %d", c.Tag, err, def))
		return def
	}
	return v
}

// accessOr extracts an access-mode child value. A missing child yields the
// inherited default silently; an unrecognized mode yields the default with
// a warning.
func (b *Builder) accessOr(n *Node, path string, def AccessMode) AccessMode {
	c := n.Find("access")
	if c == nil {
		return def
	}
	mode, ok := ParseAccessMode(c.Text)
	if !ok {
		b.rep.Report(diag.New(diag.SeverityWarning, diag.KindUnknownAccessMode,
			path, "access mode %q, using %q", c.Text, def))
		return def
	}
	return mode
}

// descriptionDecoder undoes one level of character-reference escaping that
// survives XML parsing in double-escaped documents.
var descriptionDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// decodeDescription normalizes a description: character references become
// literal text, surrounding whitespace is trimmed, and empty descriptions
// stay empty.
func decodeDescription(s string) string {
	return strings.TrimSpace(descriptionDecoder.Replace(s))
}
