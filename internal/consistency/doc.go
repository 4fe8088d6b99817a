// Package consistency detects drift between an environment's actual
// on-disk state and its declared expected configuration.
//
// A check is read-only and safely repeatable: it stats the layout, runs
// the package-listing command inside the environment, and diffs the
// result against the expectation. Nothing is ever auto-corrected.
//
// Two failure channels exist and must not be conflated:
//   - a ConsistencyReport with discrepancies is a normal result — the
//     check ran and found drift;
//   - a model.ConsistencyError means the check could not run at all
//     (environment absent, listing command unreachable or failed).
package consistency
