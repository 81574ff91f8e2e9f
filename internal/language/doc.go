// Package language validates document language and country codes and names
// them for display.
//
// A project carries a two-letter ISO 639-1 language and a two-letter region.
// Pairs that fail validation are replaced by the "no linguistic content"
// sentinel zxx/none, and the replacement is reported as a recoverable error.
package language
