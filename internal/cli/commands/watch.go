package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/equatable/compiler"
	"github.com/syssam/equatable/internal/watch"
)

func newWatchCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [packages]",
		Short: "Regenerate whenever the sources of the matching packages change",
		Long: `Run generate once, then watch the directories of the matching packages and
run it again after Go source files change. Failures are reported and
watching goes on. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.cfg.Cleanup {
				return errors.New("cleanup cannot be combined with watch: stripped annotations would remove the generated code on the next pass")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return g.watch(ctx, cmd, args)
		},
	}
}

func (g *globals) watch(ctx context.Context, cmd *cobra.Command, patterns []string) error {
	p := g.printer(cmd)
	c, err := g.genConfig(p)
	if err != nil {
		return err
	}
	pkgs, err := compiler.Load(ctx, c, g.dir, patterns...)
	if err != nil {
		return err
	}
	var dirs []string
	for _, pkg := range pkgs {
		if pkg.Dir != "" && !slices.Contains(dirs, pkg.Dir) {
			dirs = append(dirs, pkg.Dir)
		}
	}
	var mu sync.Mutex
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := g.generate(ctx, p, patterns); err != nil && ctx.Err() == nil {
			p.Fail(err)
		}
	}
	run()

	level := slog.LevelWarn
	if g.cfg.Verbose {
		level = slog.LevelDebug
	}
	w, err := watch.New(dirs, watch.Options{
		Delay:  time.Duration(g.cfg.Watch.Delay) * time.Millisecond,
		Ignore: g.cfg.Ignore(),
		Logger: slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})),
	}, func(files []string) {
		p.Status("%d changed file(s), regenerating", len(files))
		run()
	})
	if err != nil {
		return err
	}
	p.Status("watching %d package(s)", len(dirs))
	return w.Run(ctx)
}
