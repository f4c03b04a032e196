// Package db implements the engine adapters behind the queryloom.Adapter
// contract: connection resolution, managed-hosting quirks, query execution
// and catalog introspection for PostgreSQL and MySQL.
//
// Engine-client errors never cross the adapter boundary; operations convert
// them into the result shapes of pkg/queryloom.
package db
