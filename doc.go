// Package paycheck simulates investing a paycheck deposit.
//
// It holds the in-memory portfolio state of a single session, fetches a
// market snapshot for a tracked ticker set, and turns a cash deposit into a
// set of buy/sell suggestions, either through a remote Gemini call or
// through a deterministic rebalancing rule when the model is unavailable.
//
// The package is the domain layer: the CLI (cmd), the JSON API (server) and
// the renderers all operate on the types defined here.
package paycheck
