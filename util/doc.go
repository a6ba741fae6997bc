/*
Package util provides general-purpose helpers shared across the
attendance-server packages.

Operations include helpers for timing, shift arithmetic, tokens, JSON
decoding, and environment lookups.
*/
package util
