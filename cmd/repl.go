package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arfbllh/mdq/internal/repl"
	"github.com/arfbllh/mdq/run"
)

// replCmd: mdq repl [file]
func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl [file]",
		Short: "Query a document interactively",
		Long: `Start an interactive session. The file, or stdin when it is '-', is
loaded first; more documents can be loaded with .load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.startRepl,
	}
}

// startRepl loads the first of files, if any, and runs the REPL on the
// process streams.
func (a *app) startRepl(cmd *cobra.Command, files []string) error {
	opts, cfg, err := a.options(cmd)
	if err != nil {
		return err
	}

	r := repl.New(a.stdin, a.stdout, repl.NewState(opts), repl.NewHistory(cfg.HistorySize), a.logger)
	if len(files) > 0 {
		if err := a.loadFirst(r, files[0]); err != nil {
			return err
		}
	}

	if err := r.Run(); err != nil {
		return fmt.Errorf("REPL error: %w", err)
	}
	return nil
}

func (a *app) loadFirst(r *repl.Repl, path string) error {
	if path != run.Stdin {
		if err := r.LoadFile(path); err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}
		return nil
	}

	content, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	a.logger.Debug("loading stdin into REPL", zap.Int("bytes", len(content)))
	if err := r.LoadContent(string(content)); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return nil
}
