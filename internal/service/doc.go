// Package service implements the application's business logic,
// coordinating domain objects, stores, generation providers, and the
// background task system. Handlers talk to services; services own
// transactions and ownership checks.
package service
