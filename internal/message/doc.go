// Package message holds the snapshot of what is currently selected, whether
// it is a valid JMBG and what it decodes to.
//
// A Message is replaced on every recomputation and never mutated in place.
// Decoded fields always serialize with the same key order and with null for
// anything unknown, so the panel, the clipboard and the paste path all see
// identical JSON for identical input.
package message
