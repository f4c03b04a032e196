// Package logging provides concrete implementations of the queryloom.Logger
// interface, plus credential redaction helpers used on every connection
// logging path. Passwords never reach a log line in cleartext.
package logging
