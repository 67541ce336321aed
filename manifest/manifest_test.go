package manifest_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/scriptgen/manifest"
	"github.com/byte4ever/scriptgen/renderer"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func TestLoad_yaml_and_render_all(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(
		t, dir, "deploy.sh.tmpl",
		"#!/bin/sh\n# env={{env}} owner={{owner}}\n{{logic}}\n",
	)
	writeTemp(
		t, dir, "deploy.sh.logic",
		"echo deploying",
	)

	outPath := filepath.Join(dir, "deploy.sh")

	mfPath := writeTemp(
		t, dir, "renders.yaml",
		fmt.Sprintf(`substitutions:
  env: prod
  owner: team-a
renders:
  - template: %s
    template_suffix: .tmpl
    logic_suffix: .logic
    substitutions:
      owner: team-b
    output: %s
    executable: true
`, tplPath, outPath),
	)

	mf, err := manifest.Load(mfPath)
	require.NoError(t, err)
	require.Len(t, mf.Requests, 1)

	en := renderer.Engine{}

	require.NoError(t, mf.RenderAll(&en))

	got, err := os.ReadFile(outPath) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(
		t,
		"#!/bin/sh\n# env=prod owner=team-b\necho deploying\n",
		string(got),
	)
}

func TestLoad_json(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	mfPath := writeTemp(
		t, dir, "renders.json",
		`{
  "substitutions": {"env": "prod"},
  "renders": [
    {
      "template": "ci/build.sh.tmpl",
      "template_suffix": ".tmpl",
      "logic_suffix": ".logic",
      "output": "ci/build.sh"
    }
  ]
}`,
	)

	mf, err := manifest.Load(mfPath)

	require.NoError(t, err)
	require.Len(t, mf.Requests, 1)
	assert.Equal(
		t,
		"ci/build.sh.tmpl",
		mf.Requests[0].Template,
	)
	assert.Equal(
		t,
		map[string]string{"env": "prod"},
		mf.Substitutions,
	)
}

func TestLoad_hcl_with_env_reference(t *testing.T) {
	t.Setenv("SCRIPTGEN_TEST_REGION", "eu-west")

	dir := t.TempDir()

	mfPath := writeTemp(
		t, dir, "renders.hcl",
		`substitutions = {
  region = env.SCRIPTGEN_TEST_REGION
}

render {
  template        = "deploy.sh.tmpl"
  template_suffix = ".tmpl"
  logic_suffix    = ".logic"
  output          = "deploy.sh"
  executable      = true
}

render {
  template = "job.tmpl"
  logic    = "custom/job.cmd"
  output   = "job.txt"
}
`,
	)

	mf, err := manifest.Load(mfPath)

	require.NoError(t, err)
	require.Len(t, mf.Requests, 2)
	assert.Equal(
		t,
		map[string]string{"region": "eu-west"},
		mf.Substitutions,
	)
	assert.Equal(
		t, "deploy.sh.tmpl", mf.Requests[0].Template,
	)
	assert.True(t, mf.Requests[0].Executable)
	assert.Equal(
		t, "custom/job.cmd", mf.Requests[1].Logic,
	)
}

func TestLoad_unsupported_format(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load("renders.toml")

	require.Error(t, err)
	assert.Contains(
		t,
		err.Error(),
		"unsupported manifest format",
	)
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load("/nonexistent/renders.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading manifest")
}

func TestRequest_spec_layers_substitutions(t *testing.T) {
	t.Parallel()

	rq := manifest.Request{
		Template:       "app.tmpl",
		TemplateSuffix: ".tmpl",
		LogicSuffix:    ".logic",
		Substitutions: map[string]string{
			"owner": "team-b",
		},
	}

	spec := rq.Spec(map[string]string{
		"owner": "team-a",
		"env":   "prod",
	})

	assert.Equal(
		t,
		renderer.TemplateSpec{
			TemplatePath:   "app.tmpl",
			TemplateSuffix: ".tmpl",
			LogicSuffix:    ".logic",
			Substitutions: map[string]string{
				"owner": "team-b",
				"env":   "prod",
			},
		},
		spec,
	)
}

func TestRenderAll_stops_at_first_failure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(
		t, dir, "ok.tmpl", "{{logic}}",
	)
	writeTemp(t, dir, "ok.logic", "echo ok")

	okOut := filepath.Join(dir, "ok.txt")
	neverOut := filepath.Join(dir, "never.txt")

	mf := manifest.Manifest{
		Requests: []manifest.Request{
			{
				Template:       tplPath,
				TemplateSuffix: ".tmpl",
				LogicSuffix:    ".logic",
				Output:         okOut,
			},
			{
				Template: filepath.Join(
					dir, "missing.tmpl",
				),
				TemplateSuffix: ".tmpl",
				LogicSuffix:    ".logic",
				Output:         neverOut,
			},
		},
	}

	en := renderer.Engine{}

	err := mf.RenderAll(&en)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.tmpl")

	// The first request rendered before the failure.
	_, err = os.Stat(okOut)
	require.NoError(t, err)

	_, err = os.Stat(neverOut)
	require.Error(t, err)
}
