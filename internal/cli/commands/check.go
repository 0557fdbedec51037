package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/quadpde/quadpde/internal/cli/output"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/spf13/cobra"
)

// ErrDiagnostics is returned by check --strict when any file was skipped.
var ErrDiagnostics = errors.New("examples have diagnostics")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Strict bool
}

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Dir         string                `json:"dir" yaml:"dir"`
	BuildID     string                `json:"build_id" yaml:"build_id"`
	DurationMS  int64                 `json:"duration_ms" yaml:"duration_ms"`
	Examples    []string              `json:"examples" yaml:"examples"`
	Diagnostics []registry.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Build the catalog and report skipped files",
		Long: `Build the example catalog from scratch and report every definition file
that was skipped, with the stage that rejected it:

  parse        the file is not valid Starlark
  marker       the file has no quadratize(...) call
  materialize  executing the file failed
  resolve      a (function, expression) pair could not be resolved
  duplicate    another file already produced the same ID

The command fails when the examples directory cannot be found, and with
--strict also when any diagnostic was reported.`,
		Example: `  # Check the default examples directory
  quadpde check

  # Fail CI on any skipped file
  quadpde check --strict -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error if any file was skipped")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	// A fresh registry, so check never reports a cached build.
	snap, err := registry.New(cmdCtx.RegistryConfig()).Snapshot()
	if err != nil {
		return err
	}

	report := CheckReport{
		Dir:         snap.Dir,
		BuildID:     snap.BuildID.String(),
		DurationMS:  snap.Duration.Milliseconds(),
		Examples:    make([]string, len(snap.Examples)),
		Diagnostics: snap.Diagnostics,
	}
	for i, e := range snap.Examples {
		report.Examples[i] = e.ID
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []registry.Diagnostic{}
	}

	r := cmdCtx.Renderer
	if ok, err := r.Structured(report); ok {
		if err != nil {
			return err
		}
	} else {
		checkHuman(r, report)
	}

	if opts.Strict && len(report.Diagnostics) > 0 {
		return fmt.Errorf("%w: %d file(s) skipped", ErrDiagnostics, len(report.Diagnostics))
	}
	return nil
}

func checkHuman(r *output.Renderer, report CheckReport) {
	r.Header(1, "Examples check")
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Directory", report.Dir))
		r.Println(output.FormatKeyValue("Examples", len(report.Examples)))
		r.Println(output.FormatKeyValue("Skipped", len(report.Diagnostics)))
		r.Println("")
	} else {
		r.Muted(report.Dir)
	}

	if len(report.Diagnostics) > 0 {
		rows := make([][]string, len(report.Diagnostics))
		for i, d := range report.Diagnostics {
			rows[i] = []string{filepath.Base(d.Path), string(d.Stage), d.Message}
		}
		r.Table([]string{"File", "Stage", "Reason"}, rows)
		r.Println("")
	}

	summary := fmt.Sprintf("%d example(s) built, %d file(s) skipped", len(report.Examples), len(report.Diagnostics))
	if len(report.Diagnostics) == 0 {
		r.Success(summary)
		return
	}
	r.Warning(summary)
}
