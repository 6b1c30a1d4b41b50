// Package containers starts throwaway stores for integration tests and hands
// back the connection properties the code under test should use.
package containers
