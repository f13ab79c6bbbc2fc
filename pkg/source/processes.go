package source

import (
	"context"
	"sort"

	pkgerrors "github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// ProcessSampler ranks processes by CPU usage since the previous call.
// The first call only establishes the baseline and reports zero usage.
type ProcessSampler struct {
	procs map[int32]*process.Process
}

func NewProcessSampler() *ProcessSampler {
	return &ProcessSampler{procs: make(map[int32]*process.Process)}
}

// Top returns at most n processes, highest usage first.
func (p *ProcessSampler) Top(ctx context.Context, n int) ([]powerinfo.ProcessEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list processes")
	}

	seen := make(map[int32]*process.Process, len(procs))
	entries := make([]powerinfo.ProcessEntry, 0, len(procs))
	for _, proc := range procs {
		// Reuse the previous handle so Percent measures since the last tick.
		if prev, ok := p.procs[proc.Pid]; ok {
			proc = prev
		}
		seen[proc.Pid] = proc

		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		usage, err := proc.PercentWithContext(ctx, 0)
		if err != nil {
			continue
		}
		entries = append(entries, powerinfo.ProcessEntry{
			PID:   int(proc.Pid),
			Name:  name,
			Usage: usage,
		})
	}
	p.procs = seen

	return rank(entries, n), nil
}

// rank sorts by usage, breaking ties by PID, and keeps the first n with
// usage rounded to one decimal.
func rank(entries []powerinfo.ProcessEntry, n int) []powerinfo.ProcessEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Usage != entries[j].Usage {
			return entries[i].Usage > entries[j].Usage
		}
		return entries[i].PID < entries[j].PID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Usage = format.Round(entries[i].Usage, 1)
	}
	return entries
}
