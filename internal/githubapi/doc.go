// Package githubapi implements the repository hosting capability on top of the
// GitHub REST API using go-github.
//
// Each request is retried on transient failures (network errors and 5xx
// responses) with exponential backoff; every other failure surfaces at once as
// an OperationError.
package githubapi
