package rules

import (
	"github.com/gridspec/gridspec/engine/core"
)

// Process-group backends a ddp run can request.
var knownBackends = map[string]struct{}{
	"gloo": {},
	"nccl": {},
}

// defaultRules is the shipped cross-field table. Structural checks (types,
// enums, numeric bounds such as test_size in [0,1]) belong to the schema
// layer and are not duplicated here.
func defaultRules() []Rule {
	return []Rule{
		{Name: "ddp-backend", Check: checkDDPBackend},
		{Name: "files-need-format", Check: checkFilesNeedFormat},
		{Name: "text-extraction-key", Check: checkTextExtractionKey},
		{Name: "overlap-window", Check: checkOverlapWindow},
	}
}

// checkDDPBackend requires a present backend to be a known process-group
// identifier when the strategy is ddp. Absence is fine; dispatch defaults
// it. Other strategies ignore the field entirely, so stray backend values
// under fsdp or deep_speed pass through for config-file compatibility.
func checkDDPBackend(doc core.Document) core.Violations {
	if strategyOf(doc) != "ddp" {
		return nil
	}
	value, present := doc.Get("backend")
	if !present {
		return nil
	}
	backend, ok := core.AsString(value)
	if ok {
		if _, known := knownBackends[backend]; known {
			return nil
		}
	}
	v := core.NewViolationf(core.ViolationCrossFieldConflict, "backend",
		"ddp backend must be a known process-group backend")
	v.Expected = "one of [gloo, nccl]"
	v.Actual = value
	return core.Violations{v}
}

// checkFilesNeedFormat requires dataset.file_config.format once the dataset
// format is "files": without it the loader cannot pick a file reader.
// Non-string values are left to the schema layer's type check.
func checkFilesNeedFormat(doc core.Document) core.Violations {
	if !stringAt(doc, "dataset.format", "files") {
		return nil
	}
	value, present := doc.Get("dataset.file_config.format")
	if present && value != nil {
		if s, ok := core.AsString(value); !ok || s != "" {
			return nil
		}
	}
	return core.Violations{core.NewViolationf(
		core.ViolationCrossFieldConflict, "dataset.file_config.format",
		`dataset.format "files" requires dataset.file_config.format`,
	)}
}

// checkTextExtractionKey enforces the exactly-one contract between
// text_column and text_key for json/jsonl file datasets: the extractor
// needs one addressing mode, and two contradict each other.
func checkTextExtractionKey(doc core.Document) core.Violations {
	if !stringAt(doc, "dataset.format", "files") {
		return nil
	}
	format, _ := doc.Get("dataset.file_config.format")
	formatStr, _ := core.AsString(format)
	if formatStr != "json" && formatStr != "jsonl" {
		return nil
	}
	hasColumn := nonEmptyStringAt(doc, "dataset.file_config.text_column")
	hasKey := nonEmptyStringAt(doc, "dataset.file_config.text_key")
	switch {
	case hasColumn && hasKey:
		v := core.NewViolationf(core.ViolationCrossFieldConflict, "dataset.file_config",
			"text_column and text_key are mutually exclusive for %s files", formatStr)
		v.Expected = "exactly one of text_column, text_key"
		return core.Violations{v}
	case !hasColumn && !hasKey:
		v := core.NewViolationf(core.ViolationCrossFieldConflict, "dataset.file_config",
			"%s files need text_column or text_key to locate the text field", formatStr)
		v.Expected = "exactly one of text_column, text_key"
		return core.Violations{v}
	default:
		return nil
	}
}

// checkOverlapWindow rejects window overlaps that meet or exceed the context
// length: such a window never advances through the corpus.
func checkOverlapWindow(doc core.Document) core.Violations {
	overlapValue, present := doc.Get("tokenizer.overlap")
	if !present {
		return nil
	}
	contextValue, present := doc.Get("tokenizer.context_length")
	if !present {
		return nil
	}
	overlap, overlapOK := core.AsInt(overlapValue)
	contextLength, contextOK := core.AsInt(contextValue)
	if !overlapOK || !contextOK {
		// Non-integer values already produced type_mismatch upstream.
		return nil
	}
	if overlap < contextLength {
		return nil
	}
	v := core.NewViolationf(core.ViolationCrossFieldConflict, "tokenizer.overlap",
		"overlap must be smaller than context_length")
	v.Expected = "overlap < context_length"
	v.Actual = overlap
	return core.Violations{v}
}

func strategyOf(doc core.Document) string {
	value, _ := doc.Get("parallelization_strategy")
	strategy, _ := core.AsString(value)
	return strategy
}

func stringAt(doc core.Document, path, want string) bool {
	value, present := doc.Get(path)
	if !present {
		return false
	}
	got, ok := core.AsString(value)
	return ok && got == want
}

func nonEmptyStringAt(doc core.Document, path string) bool {
	value, present := doc.Get(path)
	if !present {
		return false
	}
	s, ok := core.AsString(value)
	return ok && s != ""
}
