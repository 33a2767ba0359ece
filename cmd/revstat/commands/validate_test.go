package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {"date": "2025-08-04", "learning": 20, "review": 100, "relearn": 7, "cheated": 5},
  {"date": "2025-08-05", "learning": 15, "review": 110, "relearn": 3}
]`

func executeValidate(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewValidateCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.Execute()

	return out.String(), err
}

func TestValidateCommandCSV(t *testing.T) {
	path := writeDataset(t, "reviews.csv", sampleCSV)

	out, err := executeValidate(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "dataset is valid")
	assert.Contains(t, out, "4 days, 2025-08-04 to 2025-08-07")
}

func TestValidateCommandJSON(t *testing.T) {
	path := writeDataset(t, "reviews.json", sampleJSON)

	out, err := executeValidate(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "dataset is valid")
	assert.Contains(t, out, "2 days, 2025-08-04 to 2025-08-05")
}

func TestValidateCommandMissingFile(t *testing.T) {
	_, err := executeValidate(t, "does-not-exist.json")
	require.Error(t, err)
}
