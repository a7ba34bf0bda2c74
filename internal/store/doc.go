// Package store defines the persistence interfaces and shared errors for
// the task manager. Implementations live under internal/platform; services
// depend only on these interfaces so they can be tested against mocks.
package store
