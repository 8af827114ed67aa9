package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sykell/page-analyzer/internal/db"
)

type fakeAnalyzer struct {
	next  uint
	fail  map[string]bool
	calls []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, address string) (*db.Page, error) {
	f.calls = append(f.calls, address)
	if f.fail[address] {
		return nil, errors.New("unreachable")
	}
	f.next++
	return &db.Page{ID: f.next, URL: address}, nil
}

func TestSeedPrintsIDs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	analyzer := &fakeAnalyzer{}

	err := seed(context.Background(), analyzer, []string{"http://a.example", "http://b.example"}, false, &out, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "1\thttp://a.example\n2\thttp://b.example\n", out.String())
}

func TestSeedStopsOnFirstError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	analyzer := &fakeAnalyzer{fail: map[string]bool{"http://down.example": true}}

	err := seed(context.Background(), analyzer, []string{"http://down.example", "http://b.example"}, false, &out, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, []string{"http://down.example"}, analyzer.calls)
	assert.Empty(t, out.String())
}

func TestSeedContinueOnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	analyzer := &fakeAnalyzer{fail: map[string]bool{"http://down.example": true}}

	err := seed(context.Background(), analyzer, []string{"http://down.example", "", "http://b.example"}, true, &out, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, []string{"http://down.example", "http://b.example"}, analyzer.calls)
	assert.Equal(t, "1\thttp://b.example\n", out.String())
}

func TestSeedCmdRequiresURL(t *testing.T) {
	t.Parallel()

	cmd := newSeedCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
