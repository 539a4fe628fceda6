// Package cppgen renders the validated, laid-out device model as C++11
// headers: one header per peripheral, with a raw/bit-field union per
// register, a memory-layout struct per peripheral, compile-time size
// assertions, and a volatile memory-mapped accessor macro.
//
// Source names pass through the identifier normalizer first, which maps
// them onto valid, non-reserved, scope-unique C++ identifiers. Emission is
// deterministic: the same model always produces byte-identical output.
package cppgen
