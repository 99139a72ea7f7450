// internal/step/doc.go

/*
Package step provides the identifier type for a single unit of planned work.

A step is named by one uppercase ASCII letter, `A` through `Z`. The letter
also fixes the step's intrinsic cost: its 1-indexed position in the alphabet.
The package centralizes parsing, formatting and duration rules so the rest of
the system never does byte arithmetic on identifiers.
*/
package step
