// Package fetch retrieves a remote theme archive into memory. Transport
// failures and non-success HTTP responses are reported as distinct error
// types so callers can tell a network problem from a rejected request.
package fetch
