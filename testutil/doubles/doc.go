// Package doubles provides test doubles (spies, fakes, stubs) for the
// pipeline's collaborator interfaces: stores, transaction provider,
// audit sink, loggers, metrics collector, and user/authorization
// providers. All doubles are safe for concurrent use.
package doubles
