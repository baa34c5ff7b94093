// Package ledgerengine implements the election ledger inside the
// election-core context.
//
// The module owns the deterministic election state machine: the admin set,
// election and candidate registries, the voter roll with one-shot ballots,
// on-demand tallies, and the append-only audit log every accepted mutation
// commits into. Business rules live in application/domain layers and
// infrastructure stays behind ports and adapters.
package ledgerengine
