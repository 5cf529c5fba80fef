// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow when
// converting between signed, unsigned and floating point types.
//
// Use cases:
//   - Decoding attribute values supplied as arbitrary Go numbers
//   - Coercing float attribute values to integer kinds
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
