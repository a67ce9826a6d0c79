package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/proposalcheck/internal/analysis"
	"github.com/dshills/proposalcheck/internal/compare"
	"github.com/dshills/proposalcheck/internal/config"
	"github.com/dshills/proposalcheck/internal/document"
	"github.com/dshills/proposalcheck/internal/history"
	"github.com/dshills/proposalcheck/internal/logging"
	"github.com/dshills/proposalcheck/internal/proposal"
	"github.com/dshills/proposalcheck/internal/render"
	"github.com/dshills/proposalcheck/internal/schema"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const toolName = "proposalcheck"

// Exit codes.
const (
	exitFailed  = 2
	exitUsage   = 3
	exitHistory = 4
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	now              = time.Now
)

// openStore connects to the run history. Tests replace it with a fake.
var openStore = func(ctx context.Context, cfg config.HistoryConfig) (history.Store, error) {
	return history.Open(ctx, cfg.DSN, cfg.Table)
}

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

// analyzeFlags holds the parsed flags for analyze, run and diff.
type analyzeFlags struct {
	globalFlags
	stage    string
	keywords []string
	input    string
	format   string
	out      string
	fail     bool
	record   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           toolName,
		Short:         "Analyze proposal documents for budget, RFP compliance and quality",
		Long:          "proposalcheck runs keyword and heuristic checks over proposal text and reports pass/fail results for an automation workflow.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var global globalFlags
	pf := root.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "YAML config file (default $PROPOSALCHECK_CONFIG)")
	pf.BoolVar(&global.verbose, "verbose", false, "Log processing steps to stderr")

	var af analyzeFlags
	analyzeCmd := &cobra.Command{
		Use:   "analyze <script> [document]",
		Short: "Run one analysis script over a proposal document",
		Long:  "Run one analysis script over a proposal document. The document is read from standard input when omitted or '-'.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			af.globalFlags = global
			return runAnalyze(cmd.Context(), []string{args[0]}, optionalArg(args, 1), af)
		},
	}
	addAnalyzeFlags(analyzeCmd, &af, true)

	var rf analyzeFlags
	runCmd := &cobra.Command{
		Use:   "run [document]",
		Short: "Run every analysis script over a proposal document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf.globalFlags = global
			names := make([]string, 0, len(analysis.Scripts()))
			for _, info := range analysis.Scripts() {
				names = append(names, string(info.Script))
			}
			return runAnalyze(cmd.Context(), names, optionalArg(args, 0), rf)
		},
	}
	addAnalyzeFlags(runCmd, &rf, true)

	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "List the available analysis scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripts()
		},
	}

	var df analyzeFlags
	diffCmd := &cobra.Command{
		Use:   "diff <script> <before> <after>",
		Short: "Compare one script's report across two revisions of a proposal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			df.globalFlags = global
			return runDiff(args[0], args[1], args[2], df)
		},
	}
	addAnalyzeFlags(diffCmd, &df, false)

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history <document>",
		Short: "List recorded analysis runs for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), args[0], limit, global)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")

	root.AddCommand(analyzeCmd, runCmd, scriptsCmd, diffCmd, historyCmd)
	return root
}

func addAnalyzeFlags(cmd *cobra.Command, flags *analyzeFlags, output bool) {
	f := cmd.Flags()
	f.StringVar(&flags.stage, "stage", "", "Workflow stage label, conventionally early, mid, or late (default from config)")
	f.StringArrayVar(&flags.keywords, "keyword", nil, "Required keyword for rfp-compliance (may be repeated; replaces configured keywords)")
	if !output {
		return
	}
	f.StringVar(&flags.input, "input", "", "Read a JSON proposal payload {documentText, requiredKeywords} instead of a document (- for stdin)")
	f.StringVar(&flags.format, "format", "", "Output format: json, result, md, or text (default from config)")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.BoolVar(&flags.fail, "fail", false, "Exit 2 if any analysis fails")
	f.BoolVar(&flags.record, "record", false, "Record each run in the history database")
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// loadSettings resolves configuration and applies flag overrides.
func loadSettings(flags analyzeFlags) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, codeError(exitUsage, "loading config: %s", err)
	}
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.stage != "" {
		cfg.Analysis.Stage = flags.stage
	}
	if flags.fail {
		cfg.Output.Fail = true
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, codeError(exitUsage, "invalid settings: %s", err)
	}
	log := logging.New(cfg.Log.Level, stderr)
	if !proposal.Stage(cfg.Analysis.Stage).IsKnown() {
		log.Warn("unrecognized stage label, passing it through", "stage", cfg.Analysis.Stage)
	}
	return cfg, log, nil
}

func runAnalyze(ctx context.Context, scripts []string, docPath string, flags analyzeFlags) error {
	// --- Step 1: Resolve settings ---
	cfg, log, err := loadSettings(flags)
	if err != nil {
		return err
	}

	// --- Step 2: Load the proposal ---
	doc, data, err := loadProposal(docPath, flags.input, log)
	if err != nil {
		return err
	}
	data.RequiredKeywords = resolveKeywords(flags.keywords, data.RequiredKeywords, cfg.Analysis.RequiredKeywords)
	stage := proposal.Stage(cfg.Analysis.Stage)

	// --- Step 3: Open history when recording ---
	var store history.Store
	if flags.record {
		if !cfg.History.Enabled() {
			return codeError(exitUsage, "--record requires history.dsn or PROPOSALCHECK_DATABASE_DSN")
		}
		log.Debug("opening history store", "table", cfg.History.Table)
		store, err = openStore(ctx, cfg.History)
		if err != nil {
			return codeError(exitHistory, "opening history: %s", err)
		}
		defer store.Close()
	}

	renderer, err := render.NewRenderer(cfg.Output.Format)
	if err != nil {
		return codeError(exitUsage, "invalid format: %s", err)
	}

	// --- Step 4: Analyze and render each script ---
	var output []byte
	var unknown []string
	failed := false
	for _, name := range scripts {
		log.Debug("running analysis", "script", name, "stage", stage, "document", doc.Path)
		result := analysis.ExecuteCustomAnalysis(name, data, stage)
		_, known := analysis.ParseScript(name)
		if !known {
			unknown = append(unknown, name)
		}
		if !result.Success {
			failed = true
		}
		log.Info("analysis complete", "script", name, "success", result.Success, "score", result.Score())

		report := &schema.Report{
			Tool:    toolName,
			Version: version,
			Input: schema.Input{
				Document:         doc.Path,
				DocumentHash:     doc.Hash,
				Script:           name,
				Stage:            string(stage),
				RequiredKeywords: data.RequiredKeywords,
			},
			Result: result,
		}

		if store != nil && known {
			run, err := history.NewRun(report, now())
			if err != nil {
				return codeError(exitHistory, "%s", err)
			}
			if err := store.Record(ctx, run); err != nil {
				return codeError(exitHistory, "%s", err)
			}
		}

		rendered, err := renderer.Render(report)
		if err != nil {
			return codeError(exitUsage, "rendering output: %s", err)
		}
		output = append(output, rendered...)
		// Ensure output ends with a newline for terminal friendliness.
		if len(rendered) > 0 && rendered[len(rendered)-1] != '\n' {
			output = append(output, '\n')
		}
	}

	// --- Step 5: Write output ---
	if err := writeOutput(flags.out, output); err != nil {
		return err
	}

	// --- Step 6: Exit status ---
	if len(unknown) > 0 {
		return codeError(exitUsage, "unknown script name: %s", unknown[0])
	}
	if cfg.Output.Fail && failed {
		return codeError(exitFailed, "analysis failed")
	}
	return nil
}

// loadProposal reads the proposal from a JSON payload, a document file, or stdin.
func loadProposal(docPath, inputPath string, log *slog.Logger) (*document.Document, proposal.Data, error) {
	if inputPath != "" {
		if docPath != "" {
			return nil, proposal.Data{}, codeError(exitUsage, "--input cannot be combined with a document argument")
		}
		name := inputPath
		var r io.Reader = stdin
		if inputPath == "-" {
			name = "stdin"
			log.Debug("reading proposal payload from stdin")
		} else {
			log.Debug("loading proposal payload", "path", inputPath)
			f, err := os.Open(inputPath)
			if err != nil {
				return nil, proposal.Data{}, codeError(exitUsage, "opening input: %s", err)
			}
			defer f.Close()
			r = f
		}
		data, err := proposal.Decode(r)
		if err != nil {
			return nil, proposal.Data{}, codeError(exitUsage, "decoding %s: %s", name, err)
		}
		return document.FromText(name, data.DocumentText), data, nil
	}

	if docPath == "" || docPath == "-" {
		log.Debug("reading document from stdin")
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, proposal.Data{}, codeError(exitUsage, "reading stdin: %s", err)
		}
		doc := document.FromText("stdin", string(raw))
		return doc, proposal.Data{DocumentText: doc.Text}, nil
	}

	log.Debug("loading document", "path", docPath)
	doc, err := document.Load(docPath)
	if err != nil {
		return nil, proposal.Data{}, codeError(exitUsage, "loading document: %s", err)
	}
	return doc, proposal.Data{DocumentText: doc.Text}, nil
}

// resolveKeywords picks the first non-empty keyword list: flags, payload, config.
func resolveKeywords(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

func writeOutput(path string, output []byte) error {
	if path != "" {
		if err := os.WriteFile(path, output, 0o644); err != nil {
			return codeError(exitUsage, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := stdout.Write(output); err != nil {
		return codeError(exitUsage, "writing output: %s", err)
	}
	return nil
}

func runScripts() error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, info := range analysis.Scripts() {
		fmt.Fprintf(w, "%s\t%s\n", info.Script, info.Description)
	}
	return w.Flush()
}

func runDiff(script, beforePath, afterPath string, flags analyzeFlags) error {
	cfg, log, err := loadSettings(flags)
	if err != nil {
		return err
	}
	s, ok := analysis.ParseScript(script)
	if !ok {
		return codeError(exitUsage, "unknown script name: %s", script)
	}
	stage := proposal.Stage(cfg.Analysis.Stage)
	keywords := resolveKeywords(flags.keywords, cfg.Analysis.RequiredKeywords)
	md, _ := render.NewRenderer("md")

	renderRevision := func(path string) (string, error) {
		log.Debug("analyzing revision", "path", path, "script", s)
		doc, err := document.Load(path)
		if err != nil {
			return "", codeError(exitUsage, "loading document: %s", err)
		}
		data := proposal.Data{DocumentText: doc.Text, RequiredKeywords: keywords}
		report := &schema.Report{
			Tool:    toolName,
			Version: version,
			// The document path and hash are left out so that only
			// analysis changes show up in the diff.
			Input:  schema.Input{Script: string(s), Stage: string(stage), RequiredKeywords: keywords},
			Result: s.Run(data, stage),
		}
		out, err := md.Render(report)
		if err != nil {
			return "", codeError(exitUsage, "rendering output: %s", err)
		}
		return string(out), nil
	}

	before, err := renderRevision(beforePath)
	if err != nil {
		return err
	}
	after, err := renderRevision(afterPath)
	if err != nil {
		return err
	}

	if !compare.Changed(before, after) {
		fmt.Fprintf(stdout, "no changes in %s between %s and %s\n", s, beforePath, afterPath)
		return nil
	}
	_, err = io.WriteString(stdout, compare.Diff(string(s), before, after))
	return err
}

func runHistory(ctx context.Context, docPath string, limit int, global globalFlags) error {
	cfg, log, err := loadSettings(analyzeFlags{globalFlags: global})
	if err != nil {
		return err
	}
	if !cfg.History.Enabled() {
		return codeError(exitUsage, "history requires history.dsn or PROPOSALCHECK_DATABASE_DSN")
	}
	doc, err := document.Load(docPath)
	if err != nil {
		return codeError(exitUsage, "loading document: %s", err)
	}

	store, err := openStore(ctx, cfg.History)
	if err != nil {
		return codeError(exitHistory, "opening history: %s", err)
	}
	defer store.Close()

	log.Debug("listing runs", "hash", doc.Hash, "limit", limit)
	runs, err := store.List(ctx, doc.Hash, limit)
	if err != nil {
		return codeError(exitHistory, "%s", err)
	}
	if len(runs) == 0 {
		fmt.Fprintf(stdout, "no recorded runs for %s\n", docPath)
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECORDED\tSCRIPT\tSTAGE\tSTATUS\tSCORE\tMESSAGE")
	for _, r := range runs {
		status := "PASS"
		if !r.Success {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.RecordedAt.Format(time.RFC3339), r.Script, r.Stage, status, r.Score, r.Message)
	}
	return w.Flush()
}
