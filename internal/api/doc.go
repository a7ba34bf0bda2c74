// Package api contains the HTTP transport layer: request and response
// models, handlers, routing, and the mapping from internal errors to
// status codes. Handlers stay thin; business rules live in the service
// packages.
package api
