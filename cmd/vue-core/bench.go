package main

import (
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Tajigaqzh/vue-core/pkg/reactive"
)

func benchCmd() *cobra.Command {
	var iters int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark change propagation through ref/computed graphs",
		Long: `Builds width x height grids of computed cells over a single source ref,
subscribes a sync watcher to every leaf, then measures how long one source
write takes to propagate through the whole graph.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runPropagationBench(iters)
			return nil
		},
	}

	cmd.Flags().IntVarP(&iters, "iterations", "n", 100, "Timed writes per grid size")

	return cmd
}

var (
	widths  = []int{1, 10, 100}
	heights = []int{1, 10, 100}
)

func runPropagationBench(iters int) {
	tbl := table.NewWriter()
	tbl.SetTitle("Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"graph", "cells", "leaf runs", "avg", "p75", "p99", "max"})

	for _, w := range widths {
		for _, h := range heights {
			cells, leafRuns, tach := benchGrid(w, h, iters)
			m := tach.Calc()
			tbl.AppendRow(table.Row{
				humanize.Comma(int64(w)) + "x" + humanize.Comma(int64(h)),
				humanize.Comma(int64(cells)),
				humanize.Comma(leafRuns),
				m.Time.Avg,
				m.Time.P75,
				m.Time.P99,
				m.Time.Max,
			})
		}
	}

	tbl.Render()
}

// benchGrid builds w chains of h computed cells each over one source ref,
// attaches a sync watcher per chain tail, and times iters source writes.
func benchGrid(w, h, iters int) (cells int, leafRuns int64, tach *tachymeter.Tachymeter) {
	tach = tachymeter.New(&tachymeter.Config{Size: iters})

	scope := reactive.NewScope(true)
	defer scope.Stop()

	scope.Run(func() any {
		src := reactive.NewRef(1)

		for i := 0; i < w; i++ {
			var last reactive.RefLike = src
			for j := 0; j < h; j++ {
				prev := last
				last = reactive.NewComputed(func() any {
					return prev.Value().(int) + 1
				})
				cells++
			}
			tail := last
			reactive.WatchSyncEffect(func(_ reactive.OnCleanup) {
				_ = tail.Value()
				leafRuns++
			})
		}

		for n := 0; n < iters; n++ {
			start := time.Now()
			src.SetValue(n)
			tach.AddTime(time.Since(start))
		}
		return nil
	})

	return cells, leafRuns, tach
}
