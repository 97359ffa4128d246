// Package session starts tmate, either attached to the caller's terminal or
// in the background under a pseudo-terminal, and keeps a CI job alive while a
// background session waits for someone to connect.
package session
