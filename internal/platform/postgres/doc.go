// Package postgres implements the store interfaces on PostgreSQL using
// database/sql over the pgx stdlib driver. Schema lives in /migrations
// and is applied with goose.
package postgres
