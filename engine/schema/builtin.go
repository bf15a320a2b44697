package schema

import "fmt"

// Builtin schema names.
const (
	SchemaExperimentBase    = "experiment_base"
	SchemaTokenization      = "tokenization"
	SchemaCausalPretraining = "causal_pretraining"
)

// Builtin returns a registry loaded with the shipped schema family:
// experiment_base carries the shared distributed-training contract, and the
// task schemas extend it via allOf.
func Builtin() *Registry {
	registry := NewRegistry()
	for _, node := range []*Node{
		experimentBaseNode(),
		tokenizationNode(),
		causalPretrainingNode(),
	} {
		if err := registry.Register(node); err != nil {
			panic(fmt.Sprintf("builtin schema registration: %v", err))
		}
	}
	return registry
}

func experimentBaseNode() *Node {
	return &Node{
		Name: SchemaExperimentBase,
		Fields: []Field{
			{Path: "test_size", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0), Max: ptr(1.0),
				Description: "held-out split fraction; absent means no split",
			}},
			{Path: "parallelization_strategy", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"none", "ddp", "fsdp", "deep_speed"},
				Default: "none",
				Description: "distributed execution strategy",
			}},
			{Path: "backend", Constraint: Constraint{
				Type:        TypeString,
				Description: "process-group backend for data-parallel runs",
			}},
			{Path: "num_workers", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(0.0), Default: 0,
				Description: "dataloader worker count",
			}},
			{Path: "gradient_checkpointing", Constraint: Constraint{
				Type: TypeBoolean, Default: false,
			}},
			{Path: "seed", Constraint: Constraint{
				Type:        TypeInteger,
				Description: "deterministic run seed",
			}},
			{Path: "verbose_level", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(0.0), Max: ptr(4.0),
			}},
			{Path: "auto_wrap_policy", Constraint: Constraint{
				Type:        TypeString,
				Description: "FSDP module wrapping policy",
			}},
			{Path: "sharding_strategy", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"FULL_SHARD", "SHARD_GRAD_OP"},
			}},
			{Path: "state_dict_type", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "limit_all_gathers", Constraint: Constraint{
				Type: TypeBoolean,
			}},
			{Path: "cpu_offload", Constraint: Constraint{
				Type: TypeBoolean,
			}},
			{Path: "zero_stage", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(0.0), Max: ptr(3.0),
				Description: "ZeRO optimization stage",
			}},
			{Path: "zero_optimization", Constraint: Constraint{
				Type: TypeBoolean,
			}},
		},
	}
}

func tokenizationNode() *Node {
	return &Node{
		Name:  SchemaTokenization,
		AllOf: []string{SchemaExperimentBase},
		Fields: []Field{
			{Path: "tokenizer", Constraint: Constraint{Type: TypeObject}},
			{Path: "tokenizer.name", Constraint: Constraint{
				Type:        TypeString,
				Description: "tokenizer identifier or path",
			}},
			{Path: "tokenizer.context_length", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(1.0),
			}},
			{Path: "tokenizer.overlap", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(0.0),
				Description: "token overlap between consecutive windows",
			}},
			{Path: "tokenizer.task", Constraint: Constraint{
				Type: TypeString, Default: "causal_pretraining",
			}},
			{Path: "dataset", Constraint: Constraint{Type: TypeObject}},
			{Path: "dataset.source", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"huggingface", "local"},
			}},
			{Path: "dataset.nameOrPath", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "dataset.format", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"dataset", "files"},
			}},
			{Path: "dataset.file_config", Constraint: Constraint{Type: TypeObject}},
			{Path: "dataset.file_config.format", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"csv", "txt", "json", "jsonl"},
			}},
			{Path: "dataset.file_config.text_column", Constraint: Constraint{
				Type:        TypeString,
				Description: "column holding text in tabular files",
			}},
			{Path: "dataset.file_config.text_key", Constraint: Constraint{
				Type:        TypeString,
				Description: "key holding text in json/jsonl records",
			}},
			{Path: "dataset.file_config.encoding", Constraint: Constraint{
				Type: TypeString, Default: "utf-8",
			}},
			{Path: "dataset.use_txt_as_samples", Constraint: Constraint{
				Type: TypeBoolean, Default: false,
				Description: "treat each txt file as one sample",
			}},
			{Path: "dataset.save_raw", Constraint: Constraint{Type: TypeObject}},
			{Path: "dataset.save_raw.enabled", Constraint: Constraint{
				Type: TypeBoolean,
			}},
			{Path: "dataset.save_raw.path", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "output", Constraint: Constraint{Type: TypeObject}},
			{Path: "output.path", Constraint: Constraint{
				Type: TypeString,
			}},
		},
		Required: []string{
			"tokenizer.name",
			"dataset.source",
			"dataset.nameOrPath",
		},
	}
}

func causalPretrainingNode() *Node {
	return &Node{
		Name:  SchemaCausalPretraining,
		AllOf: []string{SchemaExperimentBase},
		Fields: []Field{
			{Path: "model_name", Constraint: Constraint{
				Type:        TypeString,
				Description: "base model identifier",
			}},
			{Path: "precision", Constraint: Constraint{
				Type:        TypeString,
				Description: "numeric precision mode, e.g. bf16-mixed",
			}},
			{Path: "batch_size", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(1.0),
			}},
			{Path: "lr", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0),
			}},
			{Path: "weight_decay", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0),
			}},
			{Path: "beta1", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0), Max: ptr(1.0),
			}},
			{Path: "beta2", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0), Max: ptr(1.0),
			}},
			{Path: "optimizer", Constraint: Constraint{
				Type: TypeString, Default: "adamw",
			}},
			{Path: "lr_scheduler", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "number_epochs", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(1.0), Default: 1,
			}},
			{Path: "warmup_proportion", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0), Max: ptr(1.0),
			}},
			{Path: "gradient_accumulation_steps", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(0.0), Default: 1,
			}},
			{Path: "grad_clip", Constraint: Constraint{
				Type: TypeNumber, Min: ptr(0.0),
			}},
			{Path: "log_iter_interval", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(1.0), Default: 100,
			}},
			{Path: "output_dir", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "logging_config", Constraint: Constraint{
				Type: TypeString,
				Enum: []any{"csv", "wandb"},
				Default: "csv",
			}},
			{Path: "wandb_entity", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "wandb_project", Constraint: Constraint{
				Type: TypeString,
			}},
			{Path: "log_model", Constraint: Constraint{
				Type: TypeBoolean,
			}},
			{Path: "checkpoint", Constraint: Constraint{
				Type:        TypeString,
				Description: "checkpoint path to resume from",
			}},
			{Path: "validate_after_k_steps", Constraint: Constraint{
				Type: TypeInteger, Min: ptr(1.0),
			}},
			{Path: "validate_on_end", Constraint: Constraint{
				Type: TypeBoolean,
			}},
			{Path: "validate_after_epoch", Constraint: Constraint{
				Type: TypeBoolean,
			}},
		},
		Required: []string{"model_name"},
	}
}

func ptr(v float64) *float64 {
	return &v
}
