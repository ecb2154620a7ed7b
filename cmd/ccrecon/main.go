package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ccrecon/internal/logger"
	"ccrecon/internal/pipeline"
	"ccrecon/internal/report"
	"ccrecon/internal/version"
)

func main() {
	var cards cardFlags
	var partsPath string
	var outPath string
	var printSummary bool
	var showVersion bool

	flag.Var(&cards, "card", "Card export as LAST4=PATH (can be specified multiple times)")
	flag.StringVar(&partsPath, "parts", "", "Path to POS parts report CSV (optional)")
	flag.StringVar(&outPath, "out", "", "Output .xlsx path (default CreditCard_Reconciliation_<date>.xlsx)")
	flag.BoolVar(&printSummary, "summary", true, "Print group totals and counts to stdout")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ccrecon %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return
	}

	if len(cards) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if outPath == "" {
		outPath = fmt.Sprintf("CreditCard_Reconciliation_%s.xlsx", time.Now().Format("2006-01-02"))
	}

	logger.Init()
	log := logger.Default()

	in := pipeline.Inputs{}
	var closers []*os.File
	for _, c := range cards {
		f, err := os.Open(c.path)
		if err != nil {
			log.Error("card_open_failed", "path", c.path, "error", err.Error())
			os.Exit(1)
		}
		closers = append(closers, f)
		in.Cards = append(in.Cards, pipeline.CardFile{AccountID: c.last4, Data: f})
	}
	if partsPath != "" {
		f, err := os.Open(partsPath)
		if err != nil {
			log.Error("parts_open_failed", "path", partsPath, "error", err.Error())
			os.Exit(1)
		}
		closers = append(closers, f)
		in.Parts = f
	}

	res, err := pipeline.Run(context.Background(), in)
	for _, f := range closers {
		f.Close()
	}
	if err != nil {
		for _, fd := range fileDiagnostics(res) {
			fmt.Fprintf(os.Stderr, "card %s: %v\n", fd.account, fd.err)
		}
		log.Error("pipeline_failed", "error", err.Error())
		os.Exit(1)
	}

	// Layout failures are per-file; report them but keep going.
	for _, fd := range fileDiagnostics(res) {
		fmt.Fprintf(os.Stderr, "card %s skipped: %v\n", fd.account, fd.err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Error("output_create_failed", "path", outPath, "error", err.Error())
		os.Exit(1)
	}
	if err := report.WriteXLSX(out, res.Bundle); err != nil {
		out.Close()
		log.Error("workbook_write_failed", "path", outPath, "error", err.Error())
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		log.Error("output_close_failed", "path", outPath, "error", err.Error())
		os.Exit(1)
	}

	if printSummary {
		printRunSummary(res, outPath)
	}
}

type cardArg struct {
	last4 string
	path  string
}

// cardFlags accepts repeated -card LAST4=PATH arguments.
type cardFlags []cardArg

func (c *cardFlags) String() string {
	var parts []string
	for _, a := range *c {
		parts = append(parts, a.last4+"="+a.path)
	}
	return strings.Join(parts, ",")
}

func (c *cardFlags) Set(value string) error {
	last4, path, ok := strings.Cut(value, "=")
	if !ok || last4 == "" || path == "" {
		return fmt.Errorf("want LAST4=PATH, got %q", value)
	}
	*c = append(*c, cardArg{last4: last4, path: path})
	return nil
}

type fileDiag struct {
	account string
	err     error
}

func fileDiagnostics(res *pipeline.Result) []fileDiag {
	if res == nil {
		return nil
	}
	var out []fileDiag
	for _, f := range res.Files {
		if f.Err != nil {
			out = append(out, fileDiag{account: f.AccountID, err: f.Err})
		}
	}
	return out
}

func printRunSummary(res *pipeline.Result, outPath string) {
	fmt.Println("Files:")
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Printf("  %-6s SKIPPED (%v)\n", f.AccountID, f.Err)
			continue
		}
		fmt.Printf("  %-6s %3d rows  (%s)\n", f.AccountID, f.Rows, f.Layout)
	}

	fmt.Println("\nSummary by Group:")
	fmt.Println("-----------------")
	for _, gt := range res.Bundle.Summary {
		fmt.Printf("  %-16s $%12s\n", gt.Group, gt.Total.StringFixed(2))
	}

	fmt.Printf("\nTransactions: %d (%d matched, %d unmatched", len(res.Transactions), res.Matched, res.Unmatched)
	if res.PartsRecords > 0 {
		fmt.Printf(" against %d parts records", res.PartsRecords)
	}
	fmt.Println(")")
	fmt.Printf("Report written to %s\n", outPath)
}
