// Package target models the target-blockchain descriptor spec.md §3 and §6
// describe: one of {WASM-contract, BPF, EVM, Soroban, Stylus}, plus the
// compiled-in address/value widths and the derived selector width
// internal/dispatch switches on (spec.md §4.4: "32 bytes on BPF; 4 bytes
// on EVM/WASM").
//
// The teacher (kanso) targets a single fixed VM and carries no target
// abstraction at all, so this package has no direct teacher analogue; it
// follows the teacher's plain-constructor-function style seen throughout
// internal/ir/types.go's NewIntType-style helpers instead. No third-party
// library fits a fixed enum-plus-dimensions value type, so this is
// stdlib-only by design, not by omission.
package target

import "fmt"

// Kind enumerates the backends spec.md §3 names.
type Kind int

const (
	WasmContract Kind = iota
	BPF
	EVM
	Soroban
	Stylus
)

func (k Kind) String() string {
	switch k {
	case WasmContract:
		return "wasm-contract"
	case BPF:
		return "bpf"
	case EVM:
		return "evm"
	case Soroban:
		return "soroban"
	case Stylus:
		return "stylus"
	default:
		return "unknown"
	}
}

// Descriptor is the immutable target-machine shape the rest of the core
// compiles against: which backend, and the two dimensions spec.md §6
// calls out explicitly for the WASM-contract target but which every
// backend needs a concrete value for (storage slot width, address width).
type Descriptor struct {
	Kind Kind

	// AddressLength is the width, in bytes, of an on-chain address value.
	AddressLength int
	// ValueLength is the width, in bytes, of one storage slot / native
	// value-transfer amount (spec.md §6's value_length).
	ValueLength int
}

// SelectorWidth returns the number of leading calldata bytes internal/
// dispatch reads to pick a function (spec.md §4.4): 32 bytes on BPF, 4
// bytes everywhere else (EVM, WASM-contract, Soroban, Stylus all share the
// Keccak-256-truncated-to-4-bytes convention this core emits selectors
// with).
func (d Descriptor) SelectorWidth() int {
	if d.Kind == BPF {
		return 32
	}
	return 4
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(address=%d,value=%d)", d.Kind, d.AddressLength, d.ValueLength)
}

// NewEVM builds the EVM-compatible host descriptor: 20-byte addresses,
// 32-byte storage slots and native value amounts.
func NewEVM() Descriptor {
	return Descriptor{Kind: EVM, AddressLength: 20, ValueLength: 32}
}

// NewBPF builds the BPF-based VM descriptor: 32-byte addresses (matching
// Solana's pubkey width) and 8-byte lamport-sized values.
func NewBPF() Descriptor {
	return Descriptor{Kind: BPF, AddressLength: 32, ValueLength: 8}
}

// NewWasmContract builds the WASM-based smart-contract VM descriptor with
// the caller-supplied address/value widths (spec.md §6: "target-specific
// widths address_length and value_length for the WASM-smart-contract
// target"). Zero or negative widths fall back to the EVM-compatible
// 20/32 convention.
func NewWasmContract(addressLength, valueLength int) Descriptor {
	if addressLength <= 0 {
		addressLength = 20
	}
	if valueLength <= 0 {
		valueLength = 32
	}
	return Descriptor{Kind: WasmContract, AddressLength: addressLength, ValueLength: valueLength}
}

// NewSoroban builds the Soroban descriptor: 32-byte (Stellar strkey)
// addresses and 16-byte i128-sized values, Soroban's native amount width.
func NewSoroban() Descriptor {
	return Descriptor{Kind: Soroban, AddressLength: 32, ValueLength: 16}
}

// NewStylus builds the Stylus descriptor: an EVM-equivalent host (Arbitrum
// Stylus runs under the same 20-byte address / 32-byte slot convention).
func NewStylus() Descriptor {
	return Descriptor{Kind: Stylus, AddressLength: 20, ValueLength: 32}
}
