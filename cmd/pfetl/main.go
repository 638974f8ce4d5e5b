// Command pfetl runs the Plaid ledger pipeline: schema setup, chart administration, ingest,
// reconciliation and the admin API.
//
// Exit status: 0 on success, 1 on operational or gate failures, 2 on usage errors, 3 on
// infrastructure failures.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
)

// @title pfetl Admin API
// @version 1.0
// @description Admin API of the Plaid ledger pipeline: ingest, reconciliation, audit events and account links.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&initDBCmd{}, "setup")
	commander.Register(&seedChartCmd{}, "setup")
	commander.Register(&mapAccountCmd{}, "setup")
	commander.Register(&listAccountsCmd{}, "setup")

	commander.Register(&ingestCmd{}, "pipeline")
	commander.Register(&reconcileCmd{}, "pipeline")
	commander.Register(&eventsCmd{}, "pipeline")

	commander.Register(&serveCmd{}, "api")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
