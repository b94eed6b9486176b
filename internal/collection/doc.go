// Package collection implements the remote collection contract every console
// view shares: bind a local list to a server-held collection, mutate single
// records and resynchronize, and toggle many-to-many assignments cell by
// cell.
//
// Three controllers cover the pattern:
//
//  1. [Controller] keeps a local list in agreement with a list endpoint,
//     parameterized by named filter values. Every Load issues exactly one
//     read request; responses are sequence-tagged and stale ones discarded,
//     so after overlapping loads the applied state is that of the
//     last-issued request.
//  2. [Mutator] validates a draft locally, performs one write, then invokes
//     the owning controller's Load to resync. Validation failures never
//     reach the network.
//  3. [ToggleMatrix] holds per-subject capability sets with per-cell
//     in-flight flags. The local set changes only after the server confirms
//     (confirm-then-apply), so a failed request leaves the cell untouched
//     and retryable.
package collection
