// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SimilarityBackend: Pairwise cosine similarity and density clustering.
//     The similarity analyzer cannot be constructed without one; callers
//     choose a concrete implementation at startup.
//
// # Optional Interfaces
//
// These can be nil - detection degrades gracefully:
//
//   - FilenameMatcher: String-similarity ratio for fuzzy filename grouping.
//     Without it, the fuzzy fallback pass is skipped.
//   - InventoryStore: Loads document records and embeddings. Only the CLI
//     uses it; the detection core operates on in-memory collections.
//   - ConfigStore: Loads the detection configuration; missing sources
//     yield defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
