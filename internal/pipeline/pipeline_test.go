// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/csv-extractor/internal/extract"
	"github.com/pdiddy/csv-extractor/pkg/types"
)

const contactHeader = "name,gender,home_address,mob_or_email\n"

// fakeRecorder implements Recorder for testing.
type fakeRecorder struct {
	runs []types.RunSummary
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, s *types.RunSummary) error {
	if f.err != nil {
		return f.err
	}
	s.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, *s)
	return nil
}

// stepClock returns start on the first call and start+step on every later one.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	calls := 0
	return func() time.Time {
		t := start.Add(time.Duration(calls) * step)
		calls++
		return t
	}
}

type fixture struct {
	emailCSV  string
	mobCSV    string
	outputDir string
}

func setupInputs(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		emailCSV:  filepath.Join(dir, "Mails.csv"),
		mobCSV:    filepath.Join(dir, "MobileNumbers.csv"),
		outputDir: filepath.Join(dir, "Extracted"),
	}
	require.NoError(t, os.WriteFile(f.emailCSV,
		[]byte(contactHeader+"Alice,F,Addr1,a@x.com\nBob,M,Addr2,b@x.com\nbroken\n"), 0o644))
	require.NoError(t, os.WriteFile(f.mobCSV,
		[]byte(contactHeader+"Alice,F,Addr1,555-0100\n"), 0o644))
	return f
}

func testOptions(f fixture) Options {
	cfg := types.DefaultExtractorConfig()
	cfg.OutputDir = f.outputDir
	cfg.LineEnding = types.LineEndingLF
	return Options{
		Config: cfg,
		Now:    stepClock(time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC), 1500*time.Millisecond),
	}
}

func TestRun(t *testing.T) {
	f := setupInputs(t)
	var out bytes.Buffer

	summary, err := Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), testOptions(f), &out)
	require.NoError(t, err)

	emails := filepath.Join(f.outputDir, "EMails_123456789.txt")
	mobiles := filepath.Join(f.outputDir, "MobileNumbers_123456789.txt")

	data, err := os.ReadFile(emails)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com\nb@x.com\n", string(data))

	data, err = os.ReadFile(mobiles)
	require.NoError(t, err)
	assert.Equal(t, "555-0100\n", string(data))

	require.Len(t, summary.Outputs, 2)
	assert.Equal(t, types.OutputFile{Label: LabelEmails, Source: f.emailCSV, Path: emails, Values: 2, Skipped: 1}, summary.Outputs[0])
	assert.Equal(t, types.OutputFile{Label: LabelMobileNumbers, Source: f.mobCSV, Path: mobiles, Values: 1}, summary.Outputs[1])
	assert.Equal(t, 1500*time.Millisecond, summary.Elapsed)
	assert.Equal(t, 3, summary.TotalValues())
	assert.Equal(t, 1, summary.TotalSkipped())

	want := ":: Starting Reading files\n" +
		":: Got 2 Emails\n" +
		":: Skipped 1 malformed rows in " + f.emailCSV + "\n" +
		":: Got 1 Mobile Numbers\n" +
		":: Done in 1s and 500ms !\n"
	assert.Equal(t, want, out.String())
}

func TestRun_LineEndingFromPlatform(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{goos: "linux", want: "555-0100\n"},
		{goos: "darwin", want: "555-0100\n"},
		{goos: "windows", want: "555-0100\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			f := setupInputs(t)
			opts := testOptions(f)
			opts.Config.LineEnding = types.LineEndingAuto
			opts.GOOS = tt.goos

			summary, err := Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), opts, &bytes.Buffer{})
			require.NoError(t, err)

			data, err := os.ReadFile(summary.Outputs[1].Path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestRun_MissingInputWritesNothing(t *testing.T) {
	f := setupInputs(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	_, err := Run(context.Background(), ContactJobs(f.emailCSV, missing), testOptions(f), &bytes.Buffer{})
	require.Error(t, err)

	var ioErr *extract.IOError
	assert.True(t, errors.As(err, &ioErr), "want *extract.IOError, got %T", err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(f.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_FailPolicy(t *testing.T) {
	f := setupInputs(t)
	opts := testOptions(f)
	opts.Config.OnMalformed = types.PolicyFail

	_, err := Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), opts, &bytes.Buffer{})
	require.Error(t, err)

	var parseErr *extract.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 4, parseErr.Line)
}

func TestRun_DistinctFilesAcrossRuns(t *testing.T) {
	f := setupInputs(t)
	jobs := ContactJobs(f.emailCSV, f.mobCSV)

	first := testOptions(f)
	first.Now = stepClock(time.Date(2026, 3, 1, 12, 0, 0, 1, time.UTC), time.Millisecond)
	second := testOptions(f)
	second.Now = stepClock(time.Date(2026, 3, 1, 12, 0, 1, 2, time.UTC), time.Millisecond)

	_, err := Run(context.Background(), jobs, first, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = Run(context.Background(), jobs, second, &bytes.Buffer{})
	require.NoError(t, err)

	entries, err := os.ReadDir(f.outputDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"EMails_1.txt", "MobileNumbers_1.txt",
		"EMails_2.txt", "MobileNumbers_2.txt",
	}, names)
}

func TestRun_Recorder(t *testing.T) {
	f := setupInputs(t)
	rec := &fakeRecorder{}
	opts := testOptions(f)
	opts.Recorder = rec

	summary, err := Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), opts, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, int64(1), summary.ID)
	assert.Equal(t, types.DefaultColumn, rec.runs[0].Column)

	rec.err = errors.New("disk full")
	_, err = Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording run")
}

func TestRun_CanceledContext(t *testing.T) {
	f := setupInputs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, ContactJobs(f.emailCSV, f.mobCSV), testOptions(f), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InvalidConfig(t *testing.T) {
	f := setupInputs(t)
	opts := testOptions(f)
	opts.Config.LineEnding = "cr"

	_, err := Run(context.Background(), ContactJobs(f.emailCSV, f.mobCSV), opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported line ending")
	assert.NoDirExists(t, f.outputDir)
}

func TestOutputPath(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 42, time.UTC)
	assert.Equal(t, filepath.Join("Extracted", "EMails_42.txt"), OutputPath("Extracted", LabelEmails, ts))
}
