// Package field owns the particle population of a drift field.
//
// The package holds the mutable simulation state and the rules that create it:
//
//   - [Particle]: a single point mass with visual attributes and a short trail
//   - [Trail]: fixed-capacity ring buffer of recent positions
//   - [Store]: the live particle set, replaced wholesale on repopulation
//   - [SpawnPolicy]: maps surface area to a particle count and spawns them
//   - [Pointer]: last known pointer position in surface coordinates
//
// # Ownership
//
// A Store has exactly one writer: the goroutine running frames. Nothing in
// this package locks.
package field
