package selector

import (
	"context"
	"sort"

	"pysel/src/internal/python"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pterm/pterm"
)

// InteractivePicker renders a filterable terminal list. Ctrl+C cancels.
type InteractivePicker struct {
	MaxHeight int
}

func (p InteractivePicker) Pick(ctx context.Context, prompt string, candidates []python.Interpreter) (python.Interpreter, bool, error) {
	labels := make([]string, len(candidates))
	byLabel := make(map[string]python.Interpreter, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label()
		byLabel[labels[i]] = c
	}

	height := p.MaxHeight
	if height <= 0 {
		height = 10
	}
	interrupted := false
	chosen, err := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithDefaultText(prompt).
		WithMaxHeight(height).
		WithFilter(true).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show()
	if err != nil {
		return python.Interpreter{}, false, err
	}
	if ctx.Err() != nil || interrupted {
		return python.Interpreter{}, false, nil
	}
	sel, ok := byLabel[chosen]
	return sel, ok, nil
}

// QueryPicker chooses without prompting: the candidate whose label best
// fuzzy-matches Query, ties broken by list order. No match counts as a cancel.
type QueryPicker struct {
	Query string
}

func (p QueryPicker) Pick(_ context.Context, _ string, candidates []python.Interpreter) (python.Interpreter, bool, error) {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label()
	}
	ranks := fuzzy.RankFindFold(p.Query, labels)
	if len(ranks) == 0 {
		return python.Interpreter{}, false, nil
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	return candidates[ranks[0].OriginalIndex], true, nil
}

// FirstPicker takes the head of the list, which is the venv interpreter when
// one was found.
type FirstPicker struct{}

func (FirstPicker) Pick(_ context.Context, _ string, candidates []python.Interpreter) (python.Interpreter, bool, error) {
	if len(candidates) == 0 {
		return python.Interpreter{}, false, nil
	}
	return candidates[0], true, nil
}
