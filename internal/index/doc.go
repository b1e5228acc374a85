// Package index loads FlatBuffers resource table indexes and answers path
// lookups against them.
//
// Entries are stored sorted by path, so exact lookups are O(log n) and every
// directory maps to one contiguous run that can be found with a prefix scan.
package index
