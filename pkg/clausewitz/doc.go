// Package clausewitz implements the Clausewitz save-file grammar: a
// text tokenizer and untyped tree parser, a binary tokenizer with the
// full fixed-point float family, string-table and token-dictionary
// resolution, and a schema-driven decode engine shared by both
// formats.
//
// The package is deliberately free of any per-game knowledge. Game
// packages build typed record decoders on top of the schema engine;
// pkg/savefile handles the outer container.
package clausewitz
