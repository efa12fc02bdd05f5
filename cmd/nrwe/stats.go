package main

import (
	"fmt"
	"sort"

	"github.com/jhenkel/nrwe"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	counts, err := deps.Failures.CountByKind(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", nrwe.ErrorMessage(err))
		return err
	}

	if len(counts) == 0 {
		fmt.Fprintln(deps.Stdout, "No parse failures recorded")
		return nil
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	total := 0
	for _, kind := range kinds {
		n := counts[nrwe.FailureKind(kind)]
		fmt.Fprintf(deps.Stdout, "%-28s %d\n", kind, n)
		total += n
	}
	fmt.Fprintf(deps.Stdout, "%-28s %d\n", "total", total)
	return nil
}
