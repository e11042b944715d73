package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_CustomRules(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = NewValidator() })

	assert.NoError(t, v.Var("alice", "nonul,notblank"))
	assert.Error(t, v.Var("ali\x00ce", "nonul"))
	assert.Error(t, v.Var("  ", "notblank"))
}

func TestRegisterRules_ReportsBadTag(t *testing.T) {
	v := validator.New()
	err := registerRules(v, map[string]validator.Func{
		"": func(validator.FieldLevel) bool { return true },
	})
	assert.Error(t, err)
}
