package cppgen

import (
	"fmt"
	"regexp"
)

// cppKeywords is the C++11 reserved-word set.
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true,
	"asm": true, "auto": true, "bitand": true, "bitor": true,
	"bool": true, "break": true, "case": true, "catch": true,
	"char": true, "char16_t": true, "char32_t": true, "class": true,
	"compl": true, "const": true, "const_cast": true, "constexpr": true,
	"continue": true, "decltype": true, "default": true, "delete": true,
	"do": true, "double": true, "dynamic_cast": true, "else": true,
	"enum": true, "explicit": true, "export": true, "extern": true,
	"false": true, "float": true, "for": true, "friend": true,
	"goto": true, "if": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "not": true, "not_eq": true, "nullptr": true,
	"operator": true, "or": true, "or_eq": true, "private": true,
	"protected": true, "public": true, "register": true, "reinterpret_cast": true,
	"return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "static_assert": true, "static_cast": true, "struct": true,
	"switch": true, "template": true, "this": true, "thread_local": true,
	"throw": true, "true": true, "try": true, "typedef": true,
	"typeid": true, "typename": true, "union": true, "unsigned": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"wchar_t": true, "while": true, "xor": true, "xor_eq": true,
}

var invalidIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// reservedIdent matches identifiers the C++ standard reserves for the
// implementation: a leading underscore followed by an uppercase letter, or
// a double leading underscore.
var reservedIdent = regexp.MustCompile(`^(_[A-Z]|__)`)

// Normalize maps an arbitrary source name onto a valid C++ identifier.
// The mapping is pure: the same input always yields the same output, and a
// name that is already a valid, non-reserved identifier passes unchanged.
func Normalize(name string) string {
	id := invalidIdentChars.ReplaceAllString(name, "_")
	if id == "" {
		return "_unnamed"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	if cppKeywords[id] {
		return id + "_"
	}
	if reservedIdent.MatchString(id) {
		return "x" + id
	}
	return id
}

// Scope allocates identifiers unique within one naming scope (peripherals
// within a device, registers within a peripheral, fields within a register
// are three independent namespaces).
type Scope struct {
	used map[string]bool
}

// NewScope creates an empty naming scope.
func NewScope() *Scope {
	return &Scope{used: make(map[string]bool)}
}

// Unique normalizes name and resolves any remaining collision within the
// scope by appending a numeric suffix (_2, _3, ...). The result is recorded
// as taken.
func (s *Scope) Unique(name string) string {
	id := Normalize(name)
	if !s.used[id] {
		s.used[id] = true
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", id, i)
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate
		}
	}
}
