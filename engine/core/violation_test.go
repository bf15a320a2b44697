package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Violation_Error(t *testing.T) {
	t.Run("Should include kind, message, path, and constraint context", func(t *testing.T) {
		v := Violation{
			Path:     "test_size",
			Kind:     ViolationRangeViolation,
			Expected: "[0, 1]",
			Actual:   1.5,
			Message:  "value out of range",
		}
		msg := v.Error()
		assert.Contains(t, msg, "range_violation")
		assert.Contains(t, msg, "test_size")
		assert.Contains(t, msg, "[0, 1]")
		assert.Contains(t, msg, "1.5")
	})
	t.Run("Should summarize multi-violation lists", func(t *testing.T) {
		vs := Violations{
			NewViolation(ViolationMissingRequired, "model_name", "required field absent"),
			NewViolation(ViolationTypeMismatch, "batch_size", "expected integer"),
		}
		assert.Contains(t, vs.Error(), "and 1 more")
	})
	t.Run("Should format an empty list as no violations", func(t *testing.T) {
		assert.Equal(t, "no violations", Violations{}.Error())
	})
}

func Test_Violations_Accessors(t *testing.T) {
	vs := Violations{
		NewViolation(ViolationMissingRequired, "model_name", "required field absent"),
		NewViolation(ViolationCrossFieldConflict, "dataset.file_config", "exactly one text key"),
		NewViolation(ViolationMissingRequired, "tokenizer.name", "required field absent"),
	}
	t.Run("Should filter by kind preserving order", func(t *testing.T) {
		missing := vs.OfKind(ViolationMissingRequired)
		require.Len(t, missing, 2)
		assert.Equal(t, "model_name", missing[0].Path)
		assert.Equal(t, "tokenizer.name", missing[1].Path)
	})
	t.Run("Should list paths in order", func(t *testing.T) {
		assert.Equal(t, []string{"model_name", "dataset.file_config", "tokenizer.name"}, vs.Paths())
	})
}

func Test_Result_Merge(t *testing.T) {
	t.Run("Should concatenate violations and adopt the later config", func(t *testing.T) {
		first := Result{
			Config:     Document{"a": 1},
			Violations: Violations{NewViolation(ViolationMissingRequired, "x", "absent")},
		}
		second := Result{
			Config:     Document{"a": 1, "task": "causal_pretraining"},
			Violations: Violations{NewViolation(ViolationCrossFieldConflict, "y", "conflict")},
		}
		first.Merge(&second)
		require.Len(t, first.Violations, 2)
		assert.False(t, first.Valid())
		assert.Equal(t, second.Config, first.Config)
	})
	t.Run("Should keep the current config when the other has none", func(t *testing.T) {
		r := Result{Config: Document{"a": 1}}
		r.Merge(&Result{})
		assert.Equal(t, Document{"a": 1}, r.Config)
		assert.True(t, r.Valid())
	})
}

func Test_CompositeValidator(t *testing.T) {
	t.Run("Should thread the resolved config and concatenate violations", func(t *testing.T) {
		first := validatorFunc(func(doc Document) Result {
			resolved, err := DeepCopy(doc)
			require.NoError(t, err)
			require.NoError(t, resolved.Set("task", "causal_pretraining"))
			return Result{Config: resolved}
		})
		second := validatorFunc(func(doc Document) Result {
			assert.True(t, doc.Has("task"))
			return Result{
				Config:     doc,
				Violations: Violations{NewViolation(ViolationCrossFieldConflict, "task", "conflict")},
			}
		})
		composite := NewCompositeValidator(first, second)
		result := composite.Validate(Document{"model_name": "gpt2"})
		assert.False(t, result.Valid())
		assert.True(t, result.Config.Has("task"))
		require.Len(t, result.Violations, 1)
	})
}

type validatorFunc func(doc Document) Result

func (f validatorFunc) Validate(doc Document) Result {
	return f(doc)
}
