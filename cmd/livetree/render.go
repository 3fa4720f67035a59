package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/host/memdom"
	"github.com/vango-dev/livetree/pkg/treedoc"
)

func renderCmd(configDir *string) *cobra.Command {
	var (
		snapshotDir string
		s3Bucket    string
		s3Prefix    string
		s3Region    string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the steps of a tree document",
		Long: `Render each step of a YAML or JSON tree document onto the same
in-memory root and print the host mutations every step caused, followed
by the final HTML.

Examples:
  livetree render todo.yaml
  livetree render todo.yaml --verbose
  livetree render todo.yaml --snapshot-dir=out
  livetree render todo.yaml --s3-bucket=trees --s3-region=us-east-1`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errs.New("E050").WithDetail("render takes exactly one document path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configDir)
			if err != nil {
				return err
			}
			if snapshotDir != "" {
				cfg.Snapshot.Dir = snapshotDir
			}
			if s3Bucket != "" {
				cfg.Snapshot.S3.Bucket = s3Bucket
				cfg.Snapshot.S3.Prefix = s3Prefix
				if s3Region != "" {
					cfg.Snapshot.S3.Region = s3Region
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0], verbose)
		},
	}

	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Write a JSON snapshot per step into this directory")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "Upload a JSON snapshot per step to this S3 bucket")
	cmd.Flags().StringVar(&s3Prefix, "s3-prefix", "", "Key prefix for S3 snapshots")
	cmd.Flags().StringVar(&s3Region, "s3-region", "", "Region of the S3 bucket")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every mutation")

	return cmd
}

func runRender(ctx context.Context, out, errOut io.Writer, cfg *config.Config, path string, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	td, err := treedoc.ParseFile(path)
	if err != nil {
		return err
	}

	p := newPlayer(cfg, td, cfg.Logger(errOut))
	p.addSinks(cfg)

	for i := range p.steps {
		p.doc.ResetMutations()
		if err := p.apply(i); err != nil {
			return err
		}

		muts := p.doc.Mutations()
		success(out, "step %d: %d mutations%s", i+1, len(muts), summarize(muts))
		if verbose {
			for _, m := range muts {
				info(out, "%s", formatMutation(m))
			}
		}
		if err := p.save(ctx, fmt.Sprintf("%s-%d", p.name, i+1)); err != nil {
			warn(out, "snapshot: %v", err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, memdom.InnerHTML(p.root))
	return nil
}

// summarize returns " (kind n, ...)" sorted by kind, or "".
func summarize(muts []memdom.Mutation) string {
	if len(muts) == 0 {
		return ""
	}
	counts := make(map[memdom.MutationKind]int)
	for _, m := range muts {
		counts[m.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s %d", k, counts[memdom.MutationKind(k)])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatMutation(m memdom.Mutation) string {
	s := fmt.Sprintf("#%d %s %s", m.Seq, m.Kind, m.Node)
	if m.Name != "" {
		s += " " + m.Name
	}
	if m.Value != "" {
		s += fmt.Sprintf("=%q", m.Value)
	}
	return s
}
