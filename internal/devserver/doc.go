// Package devserver is an in-memory implementation of the catalog REST API
// for local development and client end-to-end tests. Books and accounts live
// only for the life of the process; passwords are bcrypt-hashed and sessions
// are HS256 bearer tokens.
package devserver
