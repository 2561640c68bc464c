package target

import (
	"os"

	"gopkg.in/yaml.v3"
)

// OptLevel is the optimiser aggressiveness knob spec.md §6 names.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptDefault
	OptAggressive
)

func (o OptLevel) String() string {
	switch o {
	case OptNone:
		return "none"
	case OptAggressive:
		return "aggressive"
	default:
		return "default"
	}
}

// Options is the configuration record spec.md §6 hands the core alongside
// the parse tree and target descriptor: the opt level, the individual
// pass toggles an opt level expands into, the debug-output flags, and the
// release switch that disables debug metadata outright.
type Options struct {
	Target Descriptor `yaml:"-"`

	OptLevel OptLevel `yaml:"opt_level"`

	ConstantFolding                 bool `yaml:"constant_folding"`
	StrengthReduce                  bool `yaml:"strength_reduce"`
	DeadStorage                     bool `yaml:"dead_storage"`
	CommonSubexpressionElimination  bool `yaml:"common_subexpression_elimination"`
	VectorToSlice                   bool `yaml:"vector_to_slice"`
	UnusedVariableElimination       bool `yaml:"unused_variable_elimination"`

	GenerateDebugInfo bool `yaml:"generate_debug_info"`
	LogAPIReturnCodes bool `yaml:"log_api_return_codes"`
	LogPrints         bool `yaml:"log_prints"`
	LogRuntimeErrors  bool `yaml:"log_runtime_errors"`

	Release bool `yaml:"release"`
}

// DefaultOptions returns the spec.md §6 "default" opt level applied to t:
// every pass except vector-to-slice enabled, debug metadata generated,
// release off.
func DefaultOptions(t Descriptor) Options {
	opts := Options{Target: t, OptLevel: OptDefault, GenerateDebugInfo: true}
	opts.applyLevel()
	return opts
}

// applyLevel expands OptLevel into the individual pass toggles, overwriting
// whatever values they held, and clears the debug flags when Release is set.
// DefaultOptions and LoadConfig both call it.
func (o *Options) applyLevel() {
	switch o.OptLevel {
	case OptNone:
		o.ConstantFolding = false
		o.StrengthReduce = false
		o.DeadStorage = false
		o.CommonSubexpressionElimination = false
		o.VectorToSlice = false
		o.UnusedVariableElimination = false
	case OptAggressive:
		o.ConstantFolding = true
		o.StrengthReduce = true
		o.DeadStorage = true
		o.CommonSubexpressionElimination = true
		o.VectorToSlice = true
		o.UnusedVariableElimination = true
	default: // OptDefault
		o.ConstantFolding = true
		o.StrengthReduce = true
		o.DeadStorage = true
		o.CommonSubexpressionElimination = true
		o.VectorToSlice = false // conservative pass, opt-in only below "aggressive"
		o.UnusedVariableElimination = true
	}
	if o.Release {
		o.GenerateDebugInfo = false
		o.LogPrints = false
		o.LogRuntimeErrors = false
	}
}

// LoadConfig reads a YAML configuration record from path, applies opt-level
// expansion, and attaches t as the target descriptor (the target itself is
// never serialized in the config file; it is selected independently by the
// driver's CLI surface, out of this core's scope per spec.md §1).
func LoadConfig(path string, t Descriptor) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, err
	}
	opts := Options{Target: t}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	opts.applyLevel()
	opts.Target = t
	return opts, nil
}
