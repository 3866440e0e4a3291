package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "impulsa/pkg/domain-errors"
)

type ruleInput struct {
	RuleID string  `validate:"required,slug,max=64"`
	Weight float64 `validate:"gte=0,lte=1"`
	Name   string  `validate:"notblank"`
}

func TestValidate(t *testing.T) {
	t.Run("accepts valid input", func(t *testing.T) {
		require.NoError(t, Validate(&ruleInput{RuleID: "docs_ruc", Weight: 0.4, Name: "RUC"}))
	})

	cases := []struct {
		name string
		in   ruleInput
		msg  string
	}{
		{"missing id", ruleInput{Weight: 1, Name: "x"}, "rule_id is required"},
		{"bad slug", ruleInput{RuleID: "Docs RUC", Weight: 1, Name: "x"}, "rule_id must contain only lowercase letters, digits, '-' or '_'"},
		{"weight too high", ruleInput{RuleID: "a", Weight: 1.5, Name: "x"}, "weight must be at most 1"},
		{"blank name", ruleInput{RuleID: "a", Weight: 1, Name: "   "}, "name must not be blank"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.in)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

type question struct {
	Prompt  string   `json:"prompt" validate:"required,notblank"`
	Options []string `json:"options" validate:"min=2,dive,required"`
}

type quizInput struct {
	MissionID string     `json:"mission_id" validate:"required,slug"`
	Questions []question `json:"questions" validate:"dive"`
	Internal  string     `json:"-"`
}

func TestValidate_FieldNames(t *testing.T) {
	t.Run("uses json names for nested fields", func(t *testing.T) {
		err := Validate(&quizInput{
			MissionID: "fundamentos-quiz",
			Questions: []question{
				{Prompt: "¿Qué es el RUC?", Options: []string{"a", "b"}},
				{Prompt: "¿Qué es un margen?", Options: []string{"a"}},
			},
		})
		require.Error(t, err)
		assert.Equal(t, "questions[1].options must have at least 2 items", err.Error())
	})

	t.Run("top level json name", func(t *testing.T) {
		err := Validate(&quizInput{MissionID: "Quiz 1"})
		require.Error(t, err)
		assert.Equal(t, "mission_id must contain only lowercase letters, digits, '-' or '_'", err.Error())
	})
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "rule_id", snake("RuleID"))
	assert.Equal(t, "competence_area", snake("CompetenceArea"))
	assert.Equal(t, "url", snake("URL"))
}
