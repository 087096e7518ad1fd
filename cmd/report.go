package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Be-Secure/besecure-developer-toolkit/internal/report"
)

// ErrTooManyReports is returned when more report kinds are given than
// exist. Duplicates count.
var ErrTooManyReports = errors.New("too many arguments")

const maxReports = 3

func newReportCmd(a *app) *cobra.Command {
	var (
		id                  identityFlags
		getAll              bool
		updateVersionFile   bool
		noUpdateVersionFile bool
	)
	reportCmd := &cobra.Command{
		Use:   "report [scorecard|criticality_score|codeql]...",
		Short: "Generate assessment reports: scorecard, criticality_score, codeql",
		Long: `Generate assessment reports for an OSSP version.

Following reports can be generated - scorecard, criticality_score, codeql.
Reports are written to ASSESSMENT_DIR. Scorecard and criticality scores are
also recorded in the version details file unless --update-version-file=false
is given.

Reports run in the order given; an invalid report name stops processing,
reports already generated are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := id.resolve(a, cmd, true); err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			env, err := store.Prepare()
			if err != nil {
				return err
			}
			if noUpdateVersionFile {
				updateVersionFile = false
			}

			ident := report.Identity{IssueID: id.issueID, Name: id.name, Version: id.version}
			b := &reportBatch{
				app:           a,
				cmd:           cmd,
				updateVersion: updateVersionFile,
				run: func(kind report.Kind) reportRunner {
					return a.newRunner(cmd.Context(), ident, kind, env)
				},
			}
			defer b.printSummary()

			if getAll {
				for _, kind := range report.AllKinds {
					if err := b.generate(kind); err != nil {
						return err
					}
				}
				return nil
			}

			if len(args) > maxReports {
				return ErrTooManyReports
			}
			for _, arg := range args {
				kind, err := report.ParseKind(arg)
				if err != nil {
					return err
				}
				if err := b.generate(kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
	id.register(reportCmd, true)
	reportCmd.Flags().BoolVar(&getAll, "get-all", false, "Get all 3 reports")
	reportCmd.Flags().BoolVar(&updateVersionFile, "update-version-file", true, "Update scores to version file")
	reportCmd.Flags().BoolVar(&noUpdateVersionFile, "no-update-version-file", false, "Do not update scores in the version file")
	return reportCmd
}

// reportBatch runs reports one after another and remembers the outcome
// of each for the summary table.
type reportBatch struct {
	app           *app
	cmd           *cobra.Command
	updateVersion bool
	run           func(kind report.Kind) reportRunner
	results       []reportResult
}

type reportResult struct {
	kind          report.Kind
	status        string
	versionStatus string
	output        string
}

func (b *reportBatch) generate(kind report.Kind) error {
	ctx := b.cmd.Context()
	r := b.run(kind)
	res := reportResult{kind: kind, status: "failed", versionStatus: "-", output: r.OutputPath()}

	if err := r.Run(ctx); err != nil {
		b.results = append(b.results, res)
		return err
	}
	res.status = "done"

	if b.updateVersion && kind.UpdatesVersion() {
		if err := r.UpdateVersionRecord(ctx); err != nil {
			res.versionStatus = "failed"
			b.results = append(b.results, res)
			return err
		}
		res.versionStatus = "updated"
	}
	b.results = append(b.results, res)
	return nil
}

func (b *reportBatch) printSummary() {
	if len(b.results) == 0 {
		return
	}
	t := newSummaryTable("Report", "Status", "Version file", "Output")
	for _, r := range b.results {
		t.addRow(string(r.kind), r.status, r.versionStatus, r.output)
	}
	fmt.Fprintln(b.app.out)
	t.print(b.app.out)
}
