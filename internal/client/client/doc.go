// Package client contains the auth backend client for gophchat.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login with a
//     request map ({"username","password"} or {"sessionToken"}), Ping, Close.
//  2. A gRPC implementation (see GRPCClient). Requests and responses are
//     google.protobuf.Struct values, so no generated stubs are needed. The
//     client attaches the session token to follow-up calls and logs calls
//     through go-grpc-middleware.
//  3. An HTTP/JSON implementation (see HTTPClient) for the REST flavour of
//     the backend, which wraps results in a {"code","msg","data"} envelope.
//  4. Local database bootstrap (InitDatabase, RunMigrations) backed by
//     SQLite and embedded goose migrations.
//
// # Error Handling
//
// Transport conditions map to sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrBadResponse. Backend rejections carry a
// *ResponseError. ErrorText renders any of them as a user-facing message.
//
// Concurrency & Contexts
//
// Both implementations are safe for concurrent use. All calls honor
// context cancellation and deadlines.
package client
