package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/dynafetch"
	"github.com/wolfeidau/dynafetch/localstore"
)

// isolate keeps the environment and any dynafetch.yaml on the host out of the run
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("DYNAFETCH_REGION", "")
	t.Setenv("DYNAFETCH_ENDPOINT", "")
	t.Setenv("DYNAFETCH_LOG_LEVEL", "")

	chdir(t, t.TempDir())

	return t.TempDir()
}

func runCLI(argv ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), argv, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_CreateThenReport(t *testing.T) {
	assert := require.New(t)

	dir := isolate(t)

	code, stdout, stderr := runCLI("--table", "Users", "--pk", "id", "--item", `{"id":42,"name":"Ana"}`, "--local-dir", dir)
	assert.Equal(ExitOK, code, stderr)
	assert.JSONEq(`{"id":42,"name":"Ana"}`, stdout)
	assert.Contains(stderr, "item created")

	code, stdout, stderr = runCLI("--table", "Users", "--pk", "id", "--item", `{"id":42,"name":"Bob"}`, "--local-dir", dir)
	assert.Equal(ExitOK, code, stderr)
	assert.JSONEq(`{"id":42,"name":"Ana"}`, stdout)
	assert.Contains(stderr, "existing item reported")
}

func TestRun_DataErrors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name string
		item string
		pk   string
	}{
		{name: "missing key", item: `{"name":"Ana"}`, pk: "id"},
		{name: "null key", item: `{"id":null}`, pk: "id"},
		{name: "invalid json", item: `{bad json`, pk: "id"},
		{name: "not an object", item: `[1]`, pk: "id"},
		{name: "unsupported field", item: `{"id":1,"tags":["a"]}`, pk: "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI("--table", "Users", "--pk", tt.pk, "--item", tt.item, "--local-dir", dir)
			require.Equal(t, ExitDataErr, code, stderr)
			require.Empty(t, stdout)
		})
	}
}

func TestRun_TooManyRecords(t *testing.T) {
	assert := require.New(t)

	dir := isolate(t)

	store, err := localstore.Open(localstore.Options{Dir: dir, Logger: zerolog.Nop()})
	assert.NoError(err)

	for _, name := range []string{"a", "b"} {
		err = store.Insert(context.Background(), "Users", map[string]dynafetch.AttributeValue{
			"id":   dynafetch.StringValue("dup"),
			"name": dynafetch.StringValue(name),
		})
		assert.NoError(err)
	}
	assert.NoError(store.Close())

	code, stdout, stderr := runCLI("--table", "Users", "--pk", "id", "--item", `{"id":"dup"}`, "--local-dir", dir)
	assert.Equal(ExitUsage, code, stderr)
	assert.Empty(stdout)
	assert.Contains(stderr, "expected at most one")
}

func TestRun_IfNotExists(t *testing.T) {
	assert := require.New(t)

	dir := isolate(t)

	code, _, stderr := runCLI("--table", "Users", "--pk", "id", "--item", `{"id":"a"}`, "--local-dir", dir, "--if-not-exists")
	assert.Equal(ExitOK, code, stderr)

	code, stdout, stderr := runCLI("--table", "Users", "--pk", "id", "--item", `{"id":"a"}`, "--local-dir", dir, "--if-not-exists")
	assert.Equal(ExitOK, code, stderr)
	assert.JSONEq(`{"id":"a"}`, stdout)
}

func TestRun_Usage(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		argv []string
	}{
		{name: "no flags", argv: nil},
		{name: "missing pk", argv: []string{"--table", "Users", "--item", `{"id":1}`}},
		{name: "missing table", argv: []string{"--pk", "id", "--item", `{"id":1}`}},
		{name: "empty item", argv: []string{"--table", "Users", "--pk", "id", "--item", ""}},
		{name: "unknown flag", argv: []string{"--table", "Users", "--pk", "id", "--item", `{"id":1}`, "--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(tt.argv...)
			require.Equal(t, ExitUsage, code)
			require.Empty(t, stdout)
		})
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	assert := require.New(t)

	isolate(t)

	code, stdout, _ := runCLI("--help")
	assert.Equal(ExitOK, code)
	assert.Contains(stdout, "--table")
	assert.Contains(stdout, "--pk")

	code, stdout, _ = runCLI("--version")
	assert.Equal(ExitOK, code)
	assert.Contains(stdout, "dynafetch dev")
}

func TestRun_ConfigErrors(t *testing.T) {
	assert := require.New(t)

	dir := isolate(t)

	code, _, _ := runCLI("--table", "Users", "--pk", "id", "--item", `{"id":1}`, "--local-dir", dir, "--log-level", "loud")
	assert.Equal(ExitConfig, code)

	code, _, _ = runCLI("--table", "Users", "--pk", "id", "--item", `{"id":1}`, "--config", dir+"/missing.yaml")
	assert.Equal(ExitConfig, code)
}
