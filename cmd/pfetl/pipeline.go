package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/google/subcommands"
)

type ingestCmd struct {
	itemID   string
	from     string
	to       string
	maxPages int
	dryRun   bool
}

func (*ingestCmd) Name() string { return "ingest" }
func (*ingestCmd) Synopsis() string {
	return "extract, transform and load transactions for a date window"
}
func (*ingestCmd) Usage() string {
	return `pfetl ingest -item <item id> -from <YYYY-MM-DD> -to <YYYY-MM-DD> [-max-pages <n>] [-dry-run]

  Pulls transactions from Plaid, converts them to balanced journal entries and loads them.
  Transactions already in the ledger are skipped, so re-running a window is safe.
  With -dry-run the run goes to a throwaway in-memory ledger.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.itemID, "item", "", "Plaid item id (required).")
	f.StringVar(&c.from, "from", "", "First date of the window, inclusive (required).")
	f.StringVar(&c.to, "to", "", "Last date of the window, inclusive (required).")
	f.IntVar(&c.maxPages, "max-pages", 0, "Page limit for this run. Defaults to EXTRACT_MAX_PAGES.")
	f.BoolVar(&c.dryRun, "dry-run", false, "Load into an in-memory ledger instead of the database.")
}

func (c *ingestCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := dto.IngestRequest{ItemID: c.itemID, From: c.from, To: c.to, MaxPages: c.maxPages}
	if c.itemID == "" {
		fmt.Fprintln(os.Stderr, "Error: -item is required.")
		return subcommands.ExitUsageError
	}
	if _, _, err := req.Dates(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx, c.dryRun)
	if err != nil {
		return fail(nil, "ingest", err)
	}
	defer a.Close()

	summary, err := a.services.Ingest.Run(a.Context(ctx), req)
	if summary != nil {
		if perr := printJSON(summary); perr != nil && err == nil {
			err = perr
		}
	}
	if err != nil {
		return fail(a.logger, "ingest", err)
	}
	return subcommands.ExitSuccess
}

type reconcileCmd struct {
	itemID       string
	period       string
	balancesFile string
	live         bool
	out          string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "reconcile the ledger against external balances" }
func (*reconcileCmd) Usage() string {
	return `pfetl reconcile -item <item id> -period <2024Q1|2024-03> (-balances <file> | -live) [-out <recon.json>]

  Checks coverage, entry balance, cash variance and lineage for the period and writes the report.
  Exactly one balance source is required. Exits 1 when any gate fails.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.itemID, "item", "", "Plaid item id (required).")
	f.StringVar(&c.period, "period", "", "Period label, e.g. 2024Q1 or 2024-03 (required).")
	f.StringVar(&c.balancesFile, "balances", "", "JSON file mapping Plaid account ids to balances.")
	f.BoolVar(&c.live, "live", false, "Fetch balances from Plaid.")
	f.StringVar(&c.out, "out", "recon.json", "Report path. Empty disables the file.")
}

func (c *reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := dto.ReconcileRequest{
		Period:          c.period,
		ItemID:          c.itemID,
		BalancesFile:    c.balancesFile,
		UseLiveBalances: c.live,
		OutputPath:      c.out,
	}
	if req.BalanceSourceCount() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -balances or -live is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "reconcile", err)
	}
	defer a.Close()

	result, err := a.services.Reconciliation.Reconcile(a.Context(ctx), req)
	if result != nil {
		if perr := printJSON(result); perr != nil && err == nil {
			err = perr
		}
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrGateFailed) {
			a.logger.Warn("Reconciliation failed")
			return subcommands.ExitStatus(apperrors.ExitCode(err))
		}
		return fail(a.logger, "reconcile", err)
	}
	return subcommands.ExitSuccess
}

type eventsCmd struct {
	itemID    string
	eventType string
	limit     int
	token     string
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "list audit events, newest first" }
func (*eventsCmd) Usage() string {
	return `pfetl events [-item <item id>] [-type ingest|load|reconcile] [-limit <n>] [-token <next token>]
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.itemID, "item", "", "Only events for this item.")
	f.StringVar(&c.eventType, "type", "", "Only events of this type.")
	f.IntVar(&c.limit, "limit", 20, "Page size.")
	f.StringVar(&c.token, "token", "", "Next-page token from a previous listing.")
}

func (c *eventsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "events", err)
	}
	defer a.Close()

	resp, err := a.services.Audit.List(a.Context(ctx), dto.ListEventsParams{
		ItemID:    c.itemID,
		EventType: c.eventType,
		Limit:     c.limit,
		NextToken: c.token,
	})
	if err != nil {
		return fail(a.logger, "events", err)
	}
	if err := printJSON(resp); err != nil {
		return fail(a.logger, "events", err)
	}
	return subcommands.ExitSuccess
}
