// Package layout checks the structural invariants of the device model and
// derives the byte-exact memory layout the emitter renders.
//
// The Validator applies the field-in-register and register-in-peripheral
// checks, truncates oversized reset values, and rounds odd register widths
// up to the next native width; problems are surfaced as diag findings. The
// planner then tiles every register's bit width and every peripheral's
// address range into ordered spans of real entities and synthesized padding.
// Plans are derived views: they never mutate the validated model.
package layout
