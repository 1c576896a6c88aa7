package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tmplsync/pkg/bundles"
	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/fingerprint"
	"github.com/arthur-debert/tmplsync/pkg/logging"
	"github.com/arthur-debert/tmplsync/pkg/paths"
	"github.com/arthur-debert/tmplsync/pkg/state"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

var onConflictFlag string

func init() {
	applyCmd.Flags().StringVar(&onConflictFlag, "on-conflict", "",
		"Conflict policy: keep-local, take-upstream, fail or interactive (default: from config)")
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview what a sync would do",
	Long: `Plan resolves the desired file set, fetches the template's current
content and classifies every file, without writing anything. The output is
exactly what apply would do next.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.plan")

		e, err := newEnv()
		if err != nil {
			return err
		}

		run, err := e.syncer.Plan(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info().
			Int("entries", len(run.Plan.Entries)).
			Str("source_ref", run.Plan.SourceRef).
			Msg("Plan computed")

		renderPlan(cmd.OutOrStdout(), run.Plan)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Sync the project with the template",
	Long: `Apply plans and materializes in one locked run: clean updates are
written, locally modified files are handled per the conflict policy, and
the sync state is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.apply")

		e, err := newEnv()
		if err != nil {
			return err
		}

		policy := e.cfg.OnConflict
		if onConflictFlag != "" {
			p, ok := types.ParseConflictPolicy(onConflictFlag)
			if !ok {
				return errors.Newf(errors.ErrInvalidInput,
					"unknown conflict policy %q", onConflictFlag)
			}
			policy = p
		}

		var chooser types.ConflictChooser
		if policy == types.PolicyInteractive {
			chooser = newTerminalChooser(cmd.InOrStdin(), cmd.OutOrStdout())
		}

		run, result, err := e.syncer.Sync(cmd.Context(), policy, chooser)
		if err != nil {
			return err
		}

		logger.Info().
			Int("written", len(result.Written)).
			Int("kept_local", len(result.KeptLocal)).
			Int("deleted", len(result.Deleted)).
			Msg("Sync finished")

		renderResult(cmd.OutOrStdout(), run.Plan, result)
		if result.PostHookErr != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\nwarning: post-sync hook failed: %v\n", result.PostHookErr)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked files and local modifications",
	Long: `Status compares every tracked file against the fingerprint recorded
at its last sync. It reads only the project, never the template.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		store, err := state.Load(e.fs, paths.StateFile(e.projectRoot))
		if err != nil {
			return err
		}

		renderStatus(cmd.OutOrStdout(), statusRows(e, store))
		return nil
	},
}

// statusRows classifies each tracked file against its sync record
func statusRows(e *env, store *state.Store) []statusRow {
	rows := make([]statusRow, 0, store.Len())
	for _, rec := range store.Records() {
		localFP, err := fingerprint.File(e.fs, filepath.Join(e.projectRoot, rec.Path))
		row := statusRow{Path: rec.Path, SourceRef: rec.SourceRef}
		switch {
		case err != nil:
			row.State = "unreadable"
		case localFP == "":
			row.State = "missing"
		case localFP == rec.UpstreamFingerprint:
			row.State = "clean"
		default:
			row.State = "modified"
		}
		rows = append(rows, row)
	}
	return rows
}

var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "List the template's bundles and the project's selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}

		data, err := e.src.Fetch(cmd.Context(), e.cfg.SourceRef, paths.BundlesFileName)
		if err != nil {
			return err
		}
		graph, err := bundles.Load(data)
		if err != nil {
			return err
		}
		expansion, err := graph.Expand(e.cfg.SelectedBundles)
		if err != nil {
			return err
		}

		renderBundles(cmd.OutOrStdout(), graph, expansion)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Init writes a commented starter ` + paths.ConfigFileName + ` into the
project root. It refuses to overwrite an existing one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		target := paths.ConfigFile(root)
		if _, err := os.Stat(target); err == nil {
			return errors.Newf(errors.ErrInvalidInput, "%s already exists", target)
		}

		data, err := starterConfig()
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
		return nil
	},
}

// starterConfig renders the default configuration as TOML, ready to edit
func starterConfig() ([]byte, error) {
	starter := struct {
		SourceRef       string   `toml:"source_ref"`
		SelectedBundles []string `toml:"selected_bundles"`
		Include         []string `toml:"include"`
		Exclude         []string `toml:"exclude"`
		OnConflict      string   `toml:"on_conflict"`
	}{
		SourceRef:       "main",
		SelectedBundles: []string{},
		Include:         []string{},
		Exclude:         []string{},
		OnConflict:      string(types.PolicyFail),
	}
	data, err := toml.Marshal(starter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render starter config")
	}
	header := "# tmplsync project configuration.\n# See 'tmplsync topics config' for the full reference.\n\n"
	return append([]byte(header), data...), nil
}
