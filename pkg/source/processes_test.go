package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

func TestRank(t *testing.T) {
	entries := []powerinfo.ProcessEntry{
		{PID: 3, Name: "c", Usage: 1.26},
		{PID: 1, Name: "a", Usage: 20.04},
		{PID: 4, Name: "d", Usage: 1.26},
		{PID: 2, Name: "b", Usage: 0},
	}
	got := rank(entries, 3)
	assert.Equal(t, []powerinfo.ProcessEntry{
		{PID: 1, Name: "a", Usage: 20},
		{PID: 3, Name: "c", Usage: 1.3},
		{PID: 4, Name: "d", Usage: 1.3},
	}, got)
}

func TestProcessSamplerTop(t *testing.T) {
	p := NewProcessSampler()

	none, err := p.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	list, err := p.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list), 5)
}
