package namespace

import (
	"github.com/iancoleman/strcase"

	"solcore/internal/syntax"
	"solcore/internal/target"
	"solcore/internal/types"
)

// SynthesizeGetters appends an implicit public accessor function for every
// public, non-constant, non-immutable state variable (spec.md §4.1's
// public-getter rule, exercised by spec.md §8 scenario 6's dead-storage
// elimination correctness property: "a public getter ... is an implicit
// reader"). A state variable and a function can never share a name — the
// symbol table would already have reported a redeclaration for that case
// (see symbol.go's Define) — so every public state variable reaching this
// pass is still unshadowed.
//
// Grounded on Solidity's own compiler-synthesized getter convention: one
// index parameter per peeled mapping/array layer, and — for a struct-typed
// tail — one return value per field that is itself neither a mapping nor
// an array (types.IsMappingOrArray). internal/cfg/getters.go builds the
// actual CFG body once this pass has shaped the function's signature.
func SynthesizeGetters(ns *Namespace) {
	for _, c := range ns.Contracts {
		for i, sv := range c.StateVars {
			if sv.Visibility != types.Public || sv.Constant || sv.Immutable {
				continue
			}
			params, returns := getterSignature(ns, sv.Type)
			idx := len(c.Functions)
			c.Functions = append(c.Functions, &Function{
				Name: sv.Name, Index: idx, Pos: sv.Pos, Owner: c.Index,
				Kind:       syntax.KindFunction,
				Params:     params,
				Returns:    returns,
				Mutability: types.View,
				Visibility: types.External,

				ImplicitGetter: true,
				GetterOf:       i,
				ExportName:     exportName(ns, sv.Name),
			})
		}
	}
}

// exportName derives the host-export spelling of a synthesized accessor:
// the WASM/BPF back-ends in this spec's domain export snake_case host
// symbols, while the EVM-shaped targets keep the plain Solidity identifier
// ABI selector hashing needs untouched.
func exportName(ns *Namespace, name string) string {
	switch ns.Target.Kind {
	case target.WasmContract, target.BPF:
		return strcase.ToSnake(name)
	default:
		return name
	}
}

// getterSignature peels one parameter per mapping/array layer off t and,
// for a struct-typed tail, flattens its non-mapping, non-array fields into
// separate return values (a mapping/array field of a public struct state
// variable is never exposed through the implicit getter, matching
// Solidity's own rule).
func getterSignature(ns *Namespace, t types.Type) (params, returns []Parameter) {
	cur := t
	keyIndex := 0
	for {
		switch v := cur.(type) {
		case types.Qualified:
			cur = v.Inner
			continue
		case types.Mapping:
			params = append(params, Parameter{Name: paramName("key", keyIndex), Type: v.Key})
			keyIndex++
			cur = v.Value
			continue
		case types.Array:
			params = append(params, Parameter{Name: paramName("index", keyIndex), Type: types.Int{Bits: 256}})
			keyIndex++
			cur = v.Element
			continue
		}
		break
	}

	if sr, ok := cur.(types.StructRef); ok {
		st := ns.Structs[sr.Index]
		for _, f := range st.Fields {
			if types.IsMappingOrArray(f.Type) {
				continue
			}
			returns = append(returns, Parameter{Name: f.Name, Type: f.Type})
		}
		return params, returns
	}

	returns = append(returns, Parameter{Type: cur})
	return params, returns
}

func paramName(base string, i int) string {
	if i == 0 {
		return base
	}
	return base + itoa(i)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
