package renderer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/byte4ever/scriptgen/renderer"
)

func TestBuildVariables_adds_logic_key(t *testing.T) {
	t.Parallel()

	got := renderer.BuildVariables(
		map[string]string{"name": "x"},
		"echo hi",
	)

	assert.Equal(
		t,
		map[string]interface{}{
			"name":  "x",
			"logic": "echo hi",
		},
		got,
	)
}

func TestBuildVariables_computed_logic_wins(t *testing.T) {
	t.Parallel()

	got := renderer.BuildVariables(
		map[string]string{"logic": "caller value"},
		"computed value",
	)

	assert.Equal(
		t,
		map[string]interface{}{
			"logic": "computed value",
		},
		got,
	)
}

func TestBuildVariables_does_not_mutate_input(t *testing.T) {
	t.Parallel()

	subs := map[string]string{
		"name":  "x",
		"logic": "caller value",
	}

	_ = renderer.BuildVariables(subs, "computed value")

	assert.Equal(
		t,
		map[string]string{
			"name":  "x",
			"logic": "caller value",
		},
		subs,
	)
}

func TestBuildVariables_nil_substitutions(t *testing.T) {
	t.Parallel()

	got := renderer.BuildVariables(nil, "")

	assert.Equal(
		t,
		map[string]interface{}{"logic": ""},
		got,
	)
}
