// Package svd builds the typed device model from an SVD register-map
// description.
//
// The XML input is first parsed into a generic attributed node tree (Node);
// the model builder then walks that tree and produces the
// Device → Peripheral → Register → Field graph. Tag-name aliasing between
// SVD dialects (e.g. "name" vs "n") and the three bit-range notations
// (bitOffset/bitWidth, lsb/msb, bitRange) are resolved here, so downstream
// stages only ever see the canonical model.
//
// Problems are surfaced as diag findings: a fatal error aborts the build,
// an entity-local failure drops the one offending entity, and warnings are
// corrected best-effort. One invalid field never aborts its sibling fields
// or the owning register.
package svd
