// Package client contains the backend-facing building blocks of the shoppi
// client.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts for the hosted backend: AuthGateway
//     (sign-up, sign-in, sign-out, current identity) and RowGateway (the
//     select-eq, insert-returning, update-eq and delete-eq row primitives).
//  2. A concrete gRPC implementation (see GRPCClient) that injects the
//     access token via an interceptor, bounds every call with a timeout and
//     maps gRPC status codes to sentinel errors.
//
// There is no retry: a single failure surfaces to the caller immediately.
//
// # Error Handling
//
// Auth calls fail with *AuthError and row calls with *RowError. Both keep
// the backend's message verbatim and wrap one of the sentinels below, so
// callers match with errors.Is / errors.As:
// ErrUnauthorized, ErrInvalidCredentials, ErrAlreadyRegistered,
// ErrConflict, ErrInvalidInput, ErrNotFound, ErrRateLimited, ErrUnavailable.
//
// GRPCClient is safe for concurrent use.
package client
