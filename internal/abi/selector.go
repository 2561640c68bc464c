package abi

import (
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"solcore/internal/types"
)

// CanonicalTypeName renders t the way Solidity's ABI spells a parameter
// type inside a function signature: elementary names unwrapped from any
// Qualified location tag, arrays suffixed with their (possibly empty)
// length, recursively for nested element types.
func CanonicalTypeName(t types.Type) string {
	switch v := t.(type) {
	case types.Qualified:
		return CanonicalTypeName(v.Inner)
	case types.Array:
		if v.IsDynamic() {
			return CanonicalTypeName(v.Element) + "[]"
		}
		return CanonicalTypeName(v.Element) + "[" + strconv.Itoa(v.Length) + "]"
	default:
		return t.String()
	}
}

// SignatureOf renders the canonical "name(type1,type2,...)" signature for
// a function or event, the exact text Solidity hashes to get a selector.
func SignatureOf(name string, params []types.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = CanonicalTypeName(p)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// Selector returns the selector for the given signature, truncating the
// Keccak-256 digest of its canonical text to width bytes (spec.md §4.4:
// "32 bytes on BPF; 4 bytes on EVM/WASM").
func Selector(name string, params []types.Type, width int) []byte {
	sig := SignatureOf(name, params)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	digest := h.Sum(nil)
	if width > len(digest) {
		width = len(digest)
	}
	return digest[:width]
}

// Selector32 packs a 4-byte selector into a uint32 in big-endian order,
// the form the dispatcher's Switch terminator compares against
// (internal/cfg.SwitchCase.Value).
func Selector32(name string, params []types.Type) uint32 {
	sel := Selector(name, params, 4)
	return uint32(sel[0])<<24 | uint32(sel[1])<<16 | uint32(sel[2])<<8 | uint32(sel[3])
}

// EventTopic returns the full 32-byte Keccak-256 hash of an event's
// canonical signature — the topic0 value Solidity's `emit` writes into the
// log's first topic slot.
func EventTopic(name string, params []types.Type) []byte {
	return Selector(name, params, 32)
}
