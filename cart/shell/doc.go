// Package shell connects the pure cart domain to the event store and to the
// outside world: it maps domain events to storable events and back, owns the
// boundary key rules table, provides retry with exponential backoff for
// concurrency conflicts, and defines the capability interfaces (event store,
// message publisher) that feature slices depend on.
package shell
