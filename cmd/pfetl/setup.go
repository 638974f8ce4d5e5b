package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/migrations"
	"github.com/google/subcommands"
)

type initDBCmd struct {
	seed bool
}

func (*initDBCmd) Name() string     { return "init-db" }
func (*initDBCmd) Synopsis() string { return "apply the database schema" }
func (*initDBCmd) Usage() string {
	return `pfetl init-db [-seed]

  Applies every pending schema migration to PGSQL_URL. Safe to run repeatedly.
`
}

func (c *initDBCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.seed, "seed", false, "Also seed the chart of accounts.")
}

func (c *initDBCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fail(nil, "init-db", err)
	}
	if cfg.DatabaseURL == "" {
		return fail(logger, "init-db", fmt.Errorf("PGSQL_URL is required: %w", apperrors.ErrUsage))
	}
	if err := migrations.Up(cfg.DatabaseURL, logger); err != nil {
		return fail(logger, "init-db", err)
	}
	if !c.seed {
		return subcommands.ExitSuccess
	}
	return (&seedChartCmd{}).Execute(ctx, nil)
}

type seedChartCmd struct{}

func (*seedChartCmd) Name() string     { return "seed-coa" }
func (*seedChartCmd) Synopsis() string { return "seed the canonical chart of accounts" }
func (*seedChartCmd) Usage() string {
	return `pfetl [-chart <file>] [-mapping <file>] seed-coa

  Upserts the chart of accounts and prints the stored accounts. Fails if the mapping table
  references a code the chart does not define.
`
}

func (*seedChartCmd) SetFlags(*flag.FlagSet) {}

func (*seedChartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "seed-coa", err)
	}
	defer a.Close()

	accounts, err := a.services.Chart.Seed(a.Context(ctx))
	if err != nil {
		return fail(a.logger, "seed-coa", err)
	}
	if err := printJSON(dto.ToListAccountResponse(accounts)); err != nil {
		return fail(a.logger, "seed-coa", err)
	}
	return subcommands.ExitSuccess
}

type mapAccountCmd struct {
	sourceAccountID string
	accountCode     string
}

func (*mapAccountCmd) Name() string     { return "map-account" }
func (*mapAccountCmd) Synopsis() string { return "link a Plaid account to a ledger account" }
func (*mapAccountCmd) Usage() string {
	return `pfetl map-account -plaid-account <id> -code <account code>

  Links a source account to a chart account. Reconciliation only covers linked cash accounts.
  Replaces an existing link for the same source account.
`
}

func (c *mapAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sourceAccountID, "plaid-account", "", "Plaid account id (required).")
	f.StringVar(&c.accountCode, "code", "", "Ledger account code, e.g. Assets:Bank:Checking (required).")
}

func (c *mapAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.sourceAccountID == "" || c.accountCode == "" {
		fmt.Fprintln(os.Stderr, "Error: -plaid-account and -code are required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "map-account", err)
	}
	defer a.Close()

	link, err := a.services.Chart.LinkAccount(a.Context(ctx), dto.LinkAccountRequest{
		SourceAccountID: c.sourceAccountID,
		AccountCode:     c.accountCode,
	})
	if err != nil {
		return fail(a.logger, "map-account", err)
	}
	if err := printJSON(link); err != nil {
		return fail(a.logger, "map-account", err)
	}
	return subcommands.ExitSuccess
}

type listAccountsCmd struct {
	itemID  string
	refresh bool
}

func (*listAccountsCmd) Name() string     { return "list-accounts" }
func (*listAccountsCmd) Synopsis() string { return "list an item's Plaid accounts and links" }
func (*listAccountsCmd) Usage() string {
	return `pfetl list-accounts -item <item id> [-refresh]

  Lists the item's Plaid accounts with the ledger account each is linked to. Use it to find the ids
  map-account needs. Accounts are known once an ingest ran for the item; -refresh fetches them from
  Plaid first.
`
}

func (c *listAccountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.itemID, "item", "", "Plaid item id (required).")
	f.BoolVar(&c.refresh, "refresh", false, "Fetch and store the item's accounts from Plaid before listing.")
}

func (c *listAccountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.itemID == "" {
		fmt.Fprintln(os.Stderr, "Error: -item is required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "list-accounts", err)
	}
	defer a.Close()
	ctx = a.Context(ctx)

	if c.refresh {
		if _, err := a.services.Ingest.SyncAccounts(ctx, c.itemID); err != nil {
			return fail(a.logger, "list-accounts", err)
		}
	}
	accounts, err := a.services.Chart.ListSourceAccounts(ctx, c.itemID)
	if err != nil {
		return fail(a.logger, "list-accounts", err)
	}
	if err := printJSON(accounts); err != nil {
		return fail(a.logger, "list-accounts", err)
	}
	return subcommands.ExitSuccess
}
