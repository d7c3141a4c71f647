// Package services implements the driving port interfaces.
// Services contain the detection business logic and orchestrate
// calls to driven ports (adapters).
//
// The three detectors are independent: each keeps only its own per-run
// statistics counters and shares no mutable state with the others. A
// detection run is synchronous and all-or-nothing for a given snapshot.
package services
