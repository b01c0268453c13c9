// Command globls evaluates shell-style glob patterns against the
// filesystem and prints every matching path, one per line (or as JSON
// Lines with --json).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/globwalk/internal/cliapp"
)

func main() {
	os.Exit(run())
}

func run() int {
	var cfg cliapp.Config

	root := &cobra.Command{
		Use:   "globls [flags] pattern [pattern...]",
		Short: "List files and directories matching glob patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Patterns = args
			return nil
		},
		SilenceUsage: true,
	}

	flags := root.Flags()
	flags.BoolVar(&cfg.CaseSensitive, "case-sensitive", true, "match case-sensitively")
	flags.BoolVar(&cfg.Dot, "dot", false, "allow patterns to match dotfiles")
	flags.BoolVar(&cfg.MatchBase, "match-base", false, "match basename only when pattern has no slash")
	flags.BoolVar(&cfg.NoBrace, "no-brace", false, "disable {a,b} brace expansion")
	flags.BoolVar(&cfg.NoExt, "no-ext", false, "disable extglob groups: ?(...) *(...) +(...) @(...) !(...)")
	flags.BoolVar(&cfg.NoGlobstar, "no-globstar", false, "treat ** as two literal *")
	flags.BoolVar(&cfg.Absolute, "absolute", false, "print absolute paths")
	flags.BoolVar(&cfg.Mark, "mark", false, "append / to directory results")
	flags.BoolVar(&cfg.WithFileTypes, "with-file-types", false, "resolve and print file type metadata")
	flags.BoolVar(&cfg.IncludeChildren, "include-child-matches", false, "do not prune children of ignored directories")
	flags.BoolVar(&cfg.RespectGitignore, "respect-gitignore", false, "skip paths excluded by .gitignore")
	flags.BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "follow symbolic links while walking")
	flags.BoolVar(&cfg.Parallel, "parallel", false, "walk directories concurrently")
	flags.IntVar(&cfg.MaxDepth, "max-depth", -1, "maximum directory depth below the walk root (-1 = unbounded)")
	flags.StringSliceVar(&cfg.Ignore, "ignore", nil, "glob pattern(s) to exclude from results")
	flags.BoolVar(&cfg.JSONOutput, "json", false, "emit JSON Lines instead of plain text")
	flags.StringVar(&cfg.Color, "color", "auto", "colorize output: auto, always, never")
	flags.BoolVar(&cfg.Stat, "stat", false, "batch-resolve file metadata via io_uring statx")

	root.SetArgs(configuredArgs(os.Args[1:]))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return cliapp.Run(cfg)
}

// configuredArgs prepends any flags from ~/.globlsrc / GLOBLS_CONFIG_PATH
// ahead of the command-line arguments, so explicit flags on the command
// line still take precedence (pflag resolves later occurrences last).
func configuredArgs(cliArgs []string) []string {
	fileArgs := cliapp.LoadConfigArgs()
	if len(fileArgs) == 0 {
		return cliArgs
	}
	return append(fileArgs, cliArgs...)
}
