package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const legacyPayload = `{
  "conversation_initiation_client_data": {"dynamic_variables": {
    "system__conversation_id": "conv_%s",
    "system__caller_id": "+14155551234"
  }},
  "analysis": {"data_collection_results": {"default": {
    "value": "{'lead_status_tag': 'Hot', 'total_score': 91}"
  }}}
}`

func decodeLines(t *testing.T, out []byte) []fileResult {
	t.Helper()
	var got []fileResult
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var r fileResult
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		got = append(got, r)
	}
	require.NoError(t, sc.Err())
	return got
}

func TestRunNormalize_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, id := range []string{"c", "a", "d", "b", "e"} {
		files = append(files, writeFile(t, dir, id+".json", strings.Replace(legacyPayload, "%s", id, 1)))
	}

	var out, errOut bytes.Buffer
	err := runNormalize(context.Background(), &out, &errOut, files, normalizeOptions{Check: true, Concurrency: 3})
	require.NoError(t, err)
	assert.Empty(t, errOut.String())

	got := decodeLines(t, out.Bytes())
	require.Len(t, got, len(files))
	for i, r := range got {
		assert.Equal(t, files[i], r.File)
		assert.Equal(t, webhook.SourcePhone, r.Webhook.Source)
		assert.True(t, r.Webhook.IsValid)
		assert.Empty(t, r.Violation)
	}
	assert.Equal(t, "conv_c", got[0].Webhook.Metadata.ConversationID)
	assert.Equal(t, "conv_e", got[4].Webhook.Metadata.ConversationID)
}

func TestRunNormalize_InvalidDataIsNotAViolation(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "odd.json", `{"some_random_field": "value"}`)

	var out, errOut bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), &out, &errOut, []string{p}, normalizeOptions{Check: true}))

	got := decodeLines(t, out.Bytes())
	require.Len(t, got, 1)
	assert.Equal(t, webhook.SourceUnknown, got[0].Webhook.Source)
	assert.Nil(t, got[0].Webhook.Analysis)
}

func TestRunNormalize_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", strings.Replace(legacyPayload, "%s", "g", 1))
	bad := writeFile(t, dir, "bad.json", `[1, 2, 3]`)

	var out, errOut bytes.Buffer
	err := runNormalize(context.Background(), &out, &errOut, []string{good, bad}, normalizeOptions{Concurrency: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, webhook.ErrNotObject)
	assert.Empty(t, out.String())

	err = runNormalize(context.Background(), &out, &errOut, []string{filepath.Join(dir, "missing.json")}, normalizeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "one.json", strings.Replace(legacyPayload, "%s", "cli", 1))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"normalize", "--check", "--concurrency", "2", p})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	got := decodeLines(t, out.Bytes())
	require.Len(t, got, 1)
	assert.Equal(t, "conv_cli", got[0].Webhook.Metadata.ConversationID)
}
