package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/Jan-Fryblik/linn"
	"github.com/Jan-Fryblik/linn/interchange"
	"github.com/Jan-Fryblik/linn/interchange/lsif"
	"github.com/Jan-Fryblik/linn/internal/config"
	"github.com/Jan-Fryblik/linn/internal/ctxlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := listen(os.Stdout, os.Stdin, os.Stderr, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// listen executes every LSIF document read from r, writing results to w and logs to ew.
func listen(w io.Writer, r io.Reader, ew io.Writer, cfg *config.Config) error {
	logger := cfg.NewLogger(ew)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	lsifDecoder := lsif.NewDecoder(r)
	for seq := 0; ; seq++ {
		format, err := lsifDecoder.Decode()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "decoding document %d", seq)
		}

		logger.Info("document read", "sequence", seq, "name", format.Name)
		if err := execute(ctx, w, format, cfg); err != nil {
			return errors.WithMessagef(err, "document %d (%s)", seq, format.Name)
		}
	}
}

func execute(ctx context.Context, w io.Writer, format interchange.Format, cfg *config.Config) error {
	grammar, axiom, err := format.Import()
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var onStateChanged func(linn.State)
	if cfg.PrintTurtle {
		onStateChanged = func(s linn.State) {
			fmt.Fprintf(w, "turtle %s %g %g %g\n", s.Cause, s.X(), s.Y(), s.Z())
		}
	}

	executor, err := linn.NewExecutor().
		UseGrammar(grammar).
		OnStateChanged(onStateChanged).
		WithSeed(seed).
		WithAxiom().Symbols(axiom...).Done().
		Build()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, grammar); err != nil {
		return err
	}

	log := ctxlog.FromContext(ctx)
	err = executor.ExecuteAtMost(ctx, cfg.Iterations, func(generation []linn.Symbol) {
		log.Debug("generation", "length", len(generation))
	})
	if err != nil {
		return err
	}
	log.Info("execution done", "name", grammar.Name, "iterations", executor.IterationCount(), "seed", seed)

	_, err = fmt.Fprintf(w, "%s\niterations: %d\n", linn.Sequence(executor.ProductionResult()), executor.IterationCount())
	return err
}
