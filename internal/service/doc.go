// Package service orchestrates the domain: user accounts with revocable
// sessions, avatar handling, and owner-scoped tasks. Services depend on
// the store interfaces and the auth primitives; HTTP concerns stay in
// internal/api.
package service
