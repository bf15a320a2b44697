package plan

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/gridspec/gridspec/engine/core"
)

// distributedFields is the flat slice of a document the dispatcher reads.
// Optional keys whose dispatch default is not the Go zero value decode
// through pointers so absence stays distinguishable.
type distributedFields struct {
	Strategy              string `mapstructure:"parallelization_strategy"`
	Backend               string `mapstructure:"backend"`
	NumWorkers            int    `mapstructure:"num_workers"`
	GradientCheckpointing bool   `mapstructure:"gradient_checkpointing"`
	AutoWrapPolicy        string `mapstructure:"auto_wrap_policy"`
	ShardingStrategy      string `mapstructure:"sharding_strategy"`
	StateDictType         string `mapstructure:"state_dict_type"`
	LimitAllGathers       *bool  `mapstructure:"limit_all_gathers"`
	CPUOffload            bool   `mapstructure:"cpu_offload"`
	ZeroStage             *int   `mapstructure:"zero_stage"`
	ZeroOptimization      *bool  `mapstructure:"zero_optimization"`
}

// Dispatch maps a validated document's distributed-training fields onto a
// normalized ExecutionPlan. It assumes the document already passed schema and
// rule validation; an unrecognized strategy therefore signals a bypassed
// pipeline and comes back as an error, not a violation. Dispatch is pure:
// identical documents always produce identical plans.
func Dispatch(doc core.Document) (*ExecutionPlan, error) {
	fields, err := decodeDistributed(doc)
	if err != nil {
		return nil, err
	}

	execPlan := &ExecutionPlan{GradientCheckpointing: fields.GradientCheckpointing}
	switch Strategy(fields.Strategy) {
	case StrategyNone:
		execPlan.Strategy = StrategyNone
	case StrategyDDP:
		execPlan.Strategy = StrategyDDP
		execPlan.Topology = buildTopology(fields)
	case StrategyFSDP:
		execPlan.Strategy = StrategyFSDP
		execPlan.Sharding = buildSharding(fields)
	case StrategyDeepSpeed:
		execPlan.Strategy = StrategyDeepSpeed
		execPlan.Zero = buildZero(fields)
	default:
		return nil, fmt.Errorf(
			"cannot dispatch unrecognized parallelization_strategy %q: document bypassed validation",
			fields.Strategy,
		)
	}

	if err := execPlan.check(); err != nil {
		return nil, err
	}
	return execPlan, nil
}

// decodeDistributed reads the flat distributed keys with weakly typed
// conversions so YAML-native scalars (whole floats, quoted numbers) land in
// the right Go types.
func decodeDistributed(doc core.Document) (*distributedFields, error) {
	var fields distributedFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build dispatch decoder: %w", err)
	}
	if err := decoder.Decode(doc.AsMap()); err != nil {
		return nil, fmt.Errorf("failed to decode distributed fields: %w", err)
	}
	return &fields, nil
}

func buildTopology(fields *distributedFields) *Topology {
	backend := fields.Backend
	if backend == "" {
		backend = DefaultBackend
	}
	return &Topology{
		Backend:    backend,
		NumWorkers: fields.NumWorkers,
	}
}

func buildSharding(fields *distributedFields) *Sharding {
	sharding := &Sharding{
		AutoWrapPolicy:   fields.AutoWrapPolicy,
		ShardingStrategy: fields.ShardingStrategy,
		StateDictType:    fields.StateDictType,
		LimitAllGathers:  true,
		CPUOffload:       fields.CPUOffload,
	}
	if sharding.ShardingStrategy == "" {
		sharding.ShardingStrategy = DefaultShardingStrategy
	}
	if sharding.StateDictType == "" {
		sharding.StateDictType = DefaultStateDictType
	}
	if fields.LimitAllGathers != nil {
		sharding.LimitAllGathers = *fields.LimitAllGathers
	}
	return sharding
}

func buildZero(fields *distributedFields) *Zero {
	zero := &Zero{
		Stage:        DefaultZeroStage,
		Optimization: true,
		CPUOffload:   fields.CPUOffload,
	}
	if fields.ZeroStage != nil {
		zero.Stage = *fields.ZeroStage
	}
	if fields.ZeroOptimization != nil {
		zero.Optimization = *fields.ZeroOptimization
	}
	return zero
}
