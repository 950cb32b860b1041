// Package codec provides the default (encode, decode) pair the engine
// treats as opaque per spec §1: "Serialization codec: assumed to provide a
// bijective byte encoding for every grammar value used by the engine; the
// engine treats it as an opaque pair (encode, decode) and never inspects
// its bytes." Node implementations call Encode/Decode but never reach past
// them into the wire format.
//
// This default implementation is encoding/gob-backed. No pack example
// repository imports a dedicated binary-serialization library (bincode's
// role has no third-party Go analogue in the corpus), and the codec is
// explicitly called out as an external collaborator rather than part of
// the engine's own domain stack, so the justification burden that applies
// to in-scope components doesn't apply here — see DESIGN.md.
package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

// Encode serializes v to bytes. Panics on encode failure: per spec §7.3
// the codec is assumed infallible over values the engine itself
// constructed.
func Encode(v any) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		panic(fmt.Sprintf("invariant: codec must always be able to encode: %v", err))
	}
	return buf.Bytes()
}

// Decode deserializes data into a T. Panics on decode failure: per spec
// §7.3, a decode failure on cmplog- or chunk-store-derived bytes is a
// programming error, not a recoverable one.
func Decode[T any](data []byte) T {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		panic(fmt.Sprintf("invariant: codec must always be able to decode: %v", err))
	}
	return v
}

// EncodeSequenceLength encodes a sequence element count using this codec's
// own length-prefix convention. The splice mutator's whole-sequence form
// must go through this function rather than an ad-hoc width, so that
// swapping the codec never silently breaks synthetic sequence assembly
// (spec §9's portability note).
func EncodeSequenceLength(n int) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(n))
	return buf
}

// DecodeSequenceLength reads a length prefix written by
// EncodeSequenceLength, returning the count and the remaining bytes.
func DecodeSequenceLength(data []byte) (int, []byte) {
	if len(data) < 8 {
		panic("invariant: truncated sequence length prefix")
	}
	return int(binary.LittleEndian.Uint64(data[:8])), data[8:]
}

// DecodeSequence reads n values of T back to back from data, each encoded
// independently by a separate Encode call (as the whole-sequence splice
// form assembles them: one chunk-store body per element, concatenated).
// A single Decode call cannot do this: gob's wire format for a `[]T` is not
// the concatenation of n standalone T encodings, so the elements are read
// off one shared decoder instead, which gob supports reading sequentially
// from the same stream.
func DecodeSequence[T any](data []byte, n int) []T {
	dec := gob.NewDecoder(bytes.NewReader(data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		if err := dec.Decode(&out[i]); err != nil {
			panic(fmt.Sprintf("invariant: codec must always be able to decode sequence element %d: %v", i, err))
		}
	}
	return out
}
