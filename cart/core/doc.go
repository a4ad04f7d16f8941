// Package core contains the pure domain model of the shopping cart:
// the closed set of domain events, the cart state with its evolve function,
// decision results, and the rejection taxonomy.
//
// Everything in this package is free of side effects and infrastructure
// concerns. Deciders fold the event history into state, apply business rules,
// and return a DecisionResult; the shell packages handle storage, mapping,
// and retries.
package core
