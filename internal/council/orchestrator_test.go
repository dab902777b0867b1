package council

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	segerrors "seg-mcp-server/internal/errors"
	"seg-mcp-server/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestRunSession_Golden(t *testing.T) {
	tests := []struct {
		golden string
		req    Request
	}{
		{
			golden: "braided_report.golden",
			req: Request{
				Premise:     "How should a city prepare for a century flood?",
				Replicants:  []string{"Bayesian Sage", "Comedic Trickster", "Synergy Lover", "Constraint Weaver"},
				Mode:        "braided_report",
				Constraints: "Budget under 10M",
				Cycles:      3,
			},
		},
		{
			golden: "unknown_mode.golden",
			req: Request{
				Premise:    "Is silence a form of speech?",
				Replicants: []string{"Automatist Oracle", "Essentia Distiller"},
				Mode:       "free_jazz",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			o := NewOrchestrator()
			out, err := o.RunSession(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, readGolden(t, tt.golden), out)
		})
	}
}

func TestRunSession_ModeSections(t *testing.T) {
	tests := []struct {
		mode   string
		header string
		title  string
	}{
		{"", "### 💬 Dialogic Synthesis", "- **Mode**: Dialogic"},
		{"dialogic", "### 💬 Dialogic Synthesis", "- **Mode**: Dialogic"},
		{"strategic", "### 📋 Strategic Synthesis", "- **Mode**: Strategic"},
		{"aesthetic", "### 🎨 Aesthetic Synthesis", "- **Mode**: Aesthetic"},
	}

	for _, tt := range tests {
		t.Run("mode_"+tt.mode, func(t *testing.T) {
			o := NewOrchestrator()
			out, err := o.RunSession(context.Background(), Request{
				Premise:    "p",
				Replicants: []string{"Bayesian Sage", "Rational Dreamer"},
				Mode:       tt.mode,
			})
			require.NoError(t, err)
			assert.Contains(t, out, tt.header)
			assert.Contains(t, out, tt.title)
			assert.Contains(t, out, "- **Constraints**: None\n")
			assert.Contains(t, out, "*Session completed with 2 participants across 2 cycles.*\n")
		})
	}
}

func TestRunSession_CrossResponsesWrap(t *testing.T) {
	o := NewOrchestrator()
	out, err := o.RunSession(context.Background(), Request{
		Premise:    "p",
		Replicants: []string{"Bayesian Sage", "Synergy Lover"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "**Bayesian Sage** responds to **Synergy Lover**:")
	assert.Contains(t, out, "**Synergy Lover** responds to **Bayesian Sage**:")
}

func TestRunSession_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown replicant reported in order", func(t *testing.T) {
		o := NewOrchestrator()
		out, err := o.RunSession(ctx, Request{
			Premise:    "p",
			Replicants: []string{"Bayesian Sage", "Chaos Monkey", "Nobody"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Unknown replicant: Chaos Monkey", out)
		assert.Empty(t, o.Sessions())
	})

	t.Run("too few replicants", func(t *testing.T) {
		o := NewOrchestrator()
		out, err := o.RunSession(ctx, Request{Premise: "p", Replicants: []string{"Bayesian Sage"}})
		require.NoError(t, err)
		assert.Equal(t, "Council sessions require at least 2 replicants", out)
		assert.Empty(t, o.Sessions())
	})

	t.Run("missing premise", func(t *testing.T) {
		o := NewOrchestrator()
		_, err := o.RunSession(ctx, Request{Replicants: []string{"Bayesian Sage", "Synergy Lover"}})
		require.Error(t, err)
		se, ok := segerrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, segerrors.ErrorCodeRequiredField, se.ErrorInfo.Code)
	})
}

func TestSessionRegistry(t *testing.T) {
	at := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	o := NewOrchestrator(WithClock(func() time.Time { return at }))
	ctx := context.Background()

	first, err := o.RunSession(ctx, Request{Premise: "one", Replicants: []string{"Bayesian Sage", "Synergy Lover"}, Cycles: -1})
	require.NoError(t, err)
	_, err = o.RunSession(ctx, Request{Premise: "two", Replicants: []string{"Aesthetic Alchemist", "Daydream Cartographer"}, Mode: "aesthetic", Constraints: "short"})
	require.NoError(t, err)

	sessions := o.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "council_1", sessions[0].ID)
	assert.Equal(t, "council_2", sessions[1].ID)

	s, ok := o.Session("council_1")
	require.True(t, ok)
	assert.Equal(t, types.SessionComplete, s.Status)
	assert.Equal(t, DefaultCycles, s.Cycles)
	assert.Equal(t, DefaultMode, s.Mode)
	assert.Equal(t, first, s.Output)
	assert.Equal(t, at, s.CreatedAt)

	s2, ok := o.Session("council_2")
	require.True(t, ok)
	assert.Equal(t, "short", s2.Constraints)
	assert.Equal(t, []string{"Aesthetic Alchemist", "Daydream Cartographer"}, s2.Participants)

	_, ok = o.Session("council_9")
	assert.False(t, ok)

	sessions[0].Participants[0] = "mutated"
	again, _ := o.Session("council_1")
	assert.Equal(t, "Bayesian Sage", again.Participants[0])
}

func TestRunSession_ConcurrentIDsAreUnique(t *testing.T) {
	o := NewOrchestrator()
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := o.RunSession(context.Background(), Request{
				Premise:    fmt.Sprintf("premise %d", i),
				Replicants: []string{"Bayesian Sage", "Synergy Lover"},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, s := range o.Sessions() {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.Equal(t, types.SessionComplete, s.Status)
	}
	assert.Len(t, seen, n)
}
