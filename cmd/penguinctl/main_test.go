package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"penguinexplorer/adapters/dataset"
	"penguinexplorer/app"
	"penguinexplorer/domain/penguin"
	"penguinexplorer/internal"
	"penguinexplorer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `species,island,culmen_length_mm,culmen_depth_mm,flipper_length_mm,body_mass_g,sex
Adelie,Torgersen,39.1,18.7,181,3750,MALE
Adelie,Torgersen,NA,NA,NA,NA,NA
Adelie,Dream,37.2,18.1,178,3900,MALE
Gentoo,Biscoe,46.1,13.2,211,4500,FEMALE
Gentoo,Biscoe,50,16.3,230,5700,MALE
Gentoo,Biscoe,44.5,14.3,216,4100,.
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "penguins_size.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunSummary(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSummary(context.Background(), &out, writeSample(t), quietLogger()))

	text := out.String()
	assert.Contains(t, text, "Records:")
	assert.Contains(t, text, "6")
	assert.Contains(t, text, "Missing body mass:")
	assert.Contains(t, text, "4100 g")
	assert.Contains(t, text, "Torgersen, Dream, Biscoe")
	assert.Regexp(t, `Adelie\s+3`, text)
	assert.Regexp(t, `Gentoo\s+3`, text)
	assert.Regexp(t, `culmen_length_mm\s+5\s+1`, text)
	assert.Regexp(t, `body_mass_g\s+6\s+0`, text)
}

func TestRunSummaryMissingFile(t *testing.T) {
	err := runSummary(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.csv"), quietLogger())
	require.Error(t, err)
	assert.True(t, errors.IsDataUnavailable(err))
}

func loadService(t *testing.T) *app.DashboardService {
	t.Helper()
	ds, err := dataset.NewSource(writeSample(t), quietLogger(), nil).Load(context.Background())
	require.NoError(t, err)
	return app.NewDashboardService(ds, quietLogger(), nil)
}

func TestRunFilterTable(t *testing.T) {
	var out bytes.Buffer
	sel := penguin.NewSelection("Gentoo", nil, 3000, 6300)
	require.NoError(t, runFilter(&out, "", loadService(t), sel, "table"))

	text := out.String()
	assert.Contains(t, text, "Filtered Data for Gentoo on All Islands:")
	assert.Contains(t, text, "Total records: 3")
	assert.NotContains(t, text, "Adelie")
}

func TestRunFilterCSV(t *testing.T) {
	var out bytes.Buffer
	sel := penguin.NewSelection("Adelie", []string{"Torgersen"}, 3000, 6000)
	require.NoError(t, runFilter(&out, "", loadService(t), sel, "csv"))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, penguin.TableColumns, rows[0])
	assert.Equal(t, []string{"Adelie", "Torgersen", "NA", "NA", "NA", "4100", "NA"}, rows[2])
}

func TestRunFilterXLSX(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runFilter(&out, "", loadService(t), penguin.NewSelection("Gentoo", nil, 0, 10000), "xlsx"))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("penguins")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRunFilterRejects(t *testing.T) {
	svc := loadService(t)

	err := runFilter(&bytes.Buffer{}, "", svc, penguin.NewSelection("Gentoo", nil, 0, 100), "json")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = runFilter(&bytes.Buffer{}, "", svc, penguin.NewSelection("Gentoo", nil, 500, 100), "table")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestRunFilterLeavesOutputUntouchedOnRejection(t *testing.T) {
	svc := loadService(t)
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.csv")
	err := runFilter(&bytes.Buffer{}, fresh, svc, penguin.NewSelection("Gentoo", nil, 0, 10000), "json")
	require.Error(t, err)
	assert.NoFileExists(t, fresh)

	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))
	err = runFilter(&bytes.Buffer{}, existing, svc, penguin.NewSelection("Gentoo", nil, 0, 10000), "bogus")
	require.Error(t, err)
	err = runFilter(&bytes.Buffer{}, existing, svc, penguin.NewSelection("Gentoo", nil, 500, 100), "csv")
	require.Error(t, err)

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}

func TestRunFilterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gentoo.csv")
	var stdout bytes.Buffer
	require.NoError(t, runFilter(&stdout, path, loadService(t), penguin.NewSelection("Gentoo", nil, 0, 10000), "csv"))
	assert.Empty(t, stdout.String())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRunFilterReportsCreateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	err := runFilter(&bytes.Buffer{}, path, loadService(t), penguin.NewSelection("Gentoo", nil, 0, 10000), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create")
}

func TestFilterCommandDefaults(t *testing.T) {
	out, err := execute(t, "filter", "--data", writeSample(t), "--log-level", "ERROR")
	require.NoError(t, err)
	assert.Contains(t, out, "Filtered Data for Adelie on All Islands:")
	assert.Contains(t, out, "Total records: 3")
}

func TestFilterCommandFlags(t *testing.T) {
	out, err := execute(t, "filter", "--data", writeSample(t), "--log-level", "ERROR",
		"--species", "Adelie", "--island", "Dream", "--island", "Torgersen",
		"--mass-min", "3800", "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Torgersen", rows[1][1])
	assert.Equal(t, "Dream", rows[2][1])
}

func TestFilterCommandOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "gentoo.csv")
	out, err := execute(t, "filter", "--data", writeSample(t), "--log-level", "ERROR",
		"--species", "Gentoo", "--format", "csv", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Gentoo,Biscoe,50,16.3,230,5700,MALE")
}

func TestSummaryCommandMissingFile(t *testing.T) {
	_, err := execute(t, "summary", "--data", filepath.Join(t.TempDir(), "missing.csv"), "--log-level", "ERROR")
	assert.Error(t, err)
}
