package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const legacyCampaigns = `[
  {
    "id": "camp_1",
    "learner_email": "ana@example.com",
    "coach_email": "paul@example.com",
    "weeks": "2",
    "status": "active",
    "program_text": "Semaine 1: Objectif: Gagner en clarté\n- Préparer 3 messages clés\n- Tester en réunion\nSemaine 2: Oser",
    "weekly_plan": [
      {"week": 1, "actions": [], "objective_week": ""}
    ]
  },
  {
    "id": "camp_2",
    "weeks": 1,
    "status": "draft",
    "weekly_plan": [
      {"week": 1, "objective_week": "Écouter", "actions": [
        {"id": "a1", "text": "Reformuler", "status": "done"},
        {"id": "a2", "text": "Noter", "status": "not_started"}
      ]}
    ]
  }
]`

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "campaigns.json"), []byte(legacyCampaigns), 0o644))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", dir, "--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func readCampaigns(t *testing.T, dir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "campaigns.json"))
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestNormalize_DryRunWritesNothing(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, dir, "--dry-run", "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "normalized 2 campaigns, 2 changed (dry run, nothing written)")

	data, err := os.ReadFile(filepath.Join(dir, "campaigns.json"))
	require.NoError(t, err)
	assert.Equal(t, legacyCampaigns, string(data))
}

func TestNormalize_MigratesStatuses(t *testing.T) {
	dir := setupDataDir(t)

	_, err := run(t, dir, "normalize")
	require.NoError(t, err)

	stored := readCampaigns(t, dir)
	require.Len(t, stored, 2)
	plan1 := stored[0]["weekly_plan"].([]any)
	assert.Len(t, plan1, 2)

	actions := stored[1]["weekly_plan"].([]any)[0].(map[string]any)["actions"].([]any)
	assert.Equal(t, "very_easy", actions[0].(map[string]any)["status"])
	assert.Equal(t, "very_hard", actions[1].(map[string]any)["status"])

	out, err := run(t, dir, "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "0 changed")
}

func TestSync_FillsFromProgram(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, dir, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "1 plans filled")

	week1 := readCampaigns(t, dir)[0]["weekly_plan"].([]any)[0].(map[string]any)
	assert.Equal(t, "Gagner en clarté", week1["objective_week"])
	assert.Len(t, week1["actions"], 2)
}

func TestProgress_Formats(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, dir, "progress", "--format", "json", "--campaign", "camp_2")
	require.NoError(t, err)
	var reports []CampaignReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Global.Done)
	assert.Equal(t, 2, reports[0].Global.Total)
	assert.InDelta(t, 50.0, reports[0].Global.Percent, 0.001)

	out, err = run(t, dir, "progress")
	require.NoError(t, err)
	var fromYAML []CampaignReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Len(t, fromYAML, 2)

	_, err = run(t, dir, "progress", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, dir, "progress", "--campaign", "camp_missing")
	assert.Error(t, err)
}

func TestUserAdd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "user", "add", "--name", "Root", "--email", "Root@Example.com", "--password", "pw123456", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin root@example.com")

	_, err = run(t, dir, "user", "add", "--name", "Root", "--email", "root@example.com", "--password", "pw123456")
	assert.Error(t, err)
}
