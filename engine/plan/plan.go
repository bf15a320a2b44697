package plan

import (
	"fmt"

	"github.com/gridspec/gridspec/engine/core"
)

// -----------------------------------------------------------------------------
// Strategy
// -----------------------------------------------------------------------------

// Strategy is the distributed execution mechanism a configuration selects.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyDDP       Strategy = "ddp"
	StrategyFSDP      Strategy = "fsdp"
	StrategyDeepSpeed Strategy = "deep_speed"
)

func (s Strategy) String() string {
	return string(s)
}

// Dispatch defaults applied when a selected strategy leaves a sub-key unset.
const (
	DefaultBackend          = "gloo"
	DefaultShardingStrategy = "FULL_SHARD"
	DefaultStateDictType    = "full"
	DefaultZeroStage        = 2
)

// -----------------------------------------------------------------------------
// ExecutionPlan
// -----------------------------------------------------------------------------

// Topology describes the process-group layout for data-parallel replication.
type Topology struct {
	Backend    string `json:"backend"     yaml:"backend"     validate:"required,oneof=gloo nccl" jsonschema:"required,enum=gloo,enum=nccl"`
	NumWorkers int    `json:"num_workers" yaml:"num_workers" validate:"min=0"                    jsonschema:"minimum=0"`
}

// Sharding describes the fully-sharded policy for fsdp runs.
type Sharding struct {
	AutoWrapPolicy   string `json:"auto_wrap_policy,omitempty" yaml:"auto_wrap_policy,omitempty"`
	ShardingStrategy string `json:"sharding_strategy"          yaml:"sharding_strategy"          validate:"required,oneof=FULL_SHARD SHARD_GRAD_OP" jsonschema:"required,enum=FULL_SHARD,enum=SHARD_GRAD_OP"`
	StateDictType    string `json:"state_dict_type"            yaml:"state_dict_type"            validate:"required"                                jsonschema:"required"`
	LimitAllGathers  bool   `json:"limit_all_gathers"          yaml:"limit_all_gathers"`
	CPUOffload       bool   `json:"cpu_offload"                yaml:"cpu_offload"`
}

// Zero describes the ZeRO staging and offload policy for deep_speed runs.
type Zero struct {
	Stage        int  `json:"zero_stage"        yaml:"zero_stage"        validate:"min=0,max=3" jsonschema:"minimum=0,maximum=3"`
	Optimization bool `json:"zero_optimization" yaml:"zero_optimization"`
	CPUOffload   bool `json:"cpu_offload"       yaml:"cpu_offload"`
}

// ExecutionPlan is the normalized handoff to the distributed-training
// bootstrap. Exactly the arm matching Strategy is populated; the others stay
// nil so fields from unrelated input keys never leak across strategies.
type ExecutionPlan struct {
	Strategy              Strategy  `json:"strategy"               yaml:"strategy"               validate:"required,oneof=none ddp fsdp deep_speed" jsonschema:"required,enum=none,enum=ddp,enum=fsdp,enum=deep_speed"`
	GradientCheckpointing bool      `json:"gradient_checkpointing" yaml:"gradient_checkpointing"`
	Topology              *Topology `json:"topology,omitempty"     yaml:"topology,omitempty"`
	Sharding              *Sharding `json:"sharding,omitempty"     yaml:"sharding,omitempty"`
	Zero                  *Zero     `json:"zero,omitempty"         yaml:"zero,omitempty"`
}

// check applies the struct-tag contract before a plan leaves the package: a
// breach here means the validation pipeline was bypassed, not user error.
func (p *ExecutionPlan) check() error {
	if err := core.NewStructValidator(p).Validate(); err != nil {
		return fmt.Errorf("execution plan breaks its contract: %w", err)
	}
	return nil
}
