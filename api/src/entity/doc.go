// Package entity holds the identity rules shared by persisted records:
// identity generation, new-versus-persisted detection, and equality and
// hashing that stay correct when one side is a lazy-loading proxy.
package entity
