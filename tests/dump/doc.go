/*
Package dump provides I/O operations for collected states of the scorer
registry contracts.

State collection (including storage) allows you to emulate work with "live"
contracts. First of all, it is in demand for testing updates against real
data. The package works with dumps stored in the file system using
human-readable JSON encoding with base64 for binary values.
*/
package dump
