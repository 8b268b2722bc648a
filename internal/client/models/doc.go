// Package models defines the client-side data models of shoppi: the
// application profile row, the backend identity, the locally cached
// session record and the shopping entities.
//
// JSON tags match the backend column names so rows returned by the row
// API decode straight into these types.
package models
