package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"billfold/internal/cli"
	"billfold/internal/core"
	"billfold/internal/log"
	"billfold/internal/services"
)

const usage = `Usage: billfold <command> [arguments]

Commands:
  sync    <month>                                generate or refresh a month
  show    <month>                                print the detailed month view
  pay     [flags] <month> <instance> <occurrence> close an occurrence
  reopen  <month> <instance> <occurrence>        reopen a closed occurrence
  adhoc   <month> <instance> <amount> <date>     add an extra occurrence
  additem [flags] <month> <kind> <name> <amount> <date>  add a one-off bill or income
  balance <month> <source>=<amount> [...]        enter bank balances
  lock    <month>                                make a month read-only
  unlock  <month>                                make a month editable again

Months are written YYYY-MM, dates YYYY-MM-DD, amounts as decimals.`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	be := cli.InitBackend(logger, cfg)
	defer be.Cleanup()

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	var events services.EventPublisher
	if amqpClient != nil {
		events = amqpClient
	}
	svc := services.NewBudgetService(be.Backend, events)

	ctx := context.Background()
	if err := run(ctx, svc, command, args); err != nil {
		logger.Error("Command failed", log.NewFields().
			WithOperation(opForCommand(command)).
			WithError(err).
			ToSlice()...)
		os.Exit(1)
	}
}

// opForCommand maps a CLI command to its canonical operation name.
func opForCommand(command string) string {
	switch command {
	case "sync":
		return log.OpSync
	case "show":
		return log.OpRead
	case "pay":
		return log.OpPay
	case "reopen":
		return log.OpReopen
	case "adhoc", "additem":
		return log.OpAdhoc
	case "balance":
		return log.OpBalance
	case "lock", "unlock":
		return log.OpLock
	}
	return command
}

func run(ctx context.Context, svc *services.BudgetService, command string, args []string) error {
	switch command {
	case "sync":
		month, err := monthArg(args, 0)
		if err != nil {
			return err
		}
		md, err := svc.GenerateOrSyncMonth(ctx, month)
		if err != nil {
			return err
		}
		fmt.Printf("synced %s: %d bills, %d incomes\n", md.Month, len(md.Bills), len(md.Incomes))
		return nil

	case "show":
		month, err := monthArg(args, 0)
		if err != nil {
			return err
		}
		dm, err := svc.GetDetailedMonth(ctx, month)
		if err != nil {
			return err
		}
		render(os.Stdout, dm)
		return nil

	case "pay":
		fs := flag.NewFlagSet("pay", flag.ContinueOnError)
		date := fs.String("date", "", "payment date (YYYY-MM-DD, default today)")
		source := fs.String("source", "", "payment source id")
		notes := fs.String("notes", "", "payment notes")
		month, instanceID, occurrenceID, err := occurrenceArgs(fs, args)
		if err != nil {
			return err
		}
		p := services.Payment{PaymentSourceID: *source, Notes: *notes}
		if *date != "" {
			if p.Date, err = core.ParseDate(*date); err != nil {
				return err
			}
		}
		if _, err := svc.RecordOccurrencePayment(ctx, month, instanceID, occurrenceID, p); err != nil {
			return err
		}
		fmt.Printf("paid %s/%s in %s\n", instanceID, occurrenceID, month)
		return nil

	case "reopen":
		fs := flag.NewFlagSet("reopen", flag.ContinueOnError)
		month, instanceID, occurrenceID, err := occurrenceArgs(fs, args)
		if err != nil {
			return err
		}
		if _, err := svc.ReopenOccurrence(ctx, month, instanceID, occurrenceID); err != nil {
			return err
		}
		fmt.Printf("reopened %s/%s in %s\n", instanceID, occurrenceID, month)
		return nil

	case "adhoc":
		if len(args) < 4 {
			return fmt.Errorf("adhoc needs <month> <instance> <amount> <date>")
		}
		month, err := core.ParseMonth(args[0])
		if err != nil {
			return err
		}
		cents, err := core.ParseDecimalToCents(args[2])
		if err != nil {
			return err
		}
		date, err := core.ParseDate(args[3])
		if err != nil {
			return err
		}
		id, err := svc.AddAdhocOccurrence(ctx, month, args[1], core.Money{Cents: cents}, date)
		if err != nil {
			return err
		}
		fmt.Printf("added occurrence %s to %s in %s\n", id, args[1], month)
		return nil

	case "additem":
		fs := flag.NewFlagSet("additem", flag.ContinueOnError)
		category := fs.String("category", "", "category id")
		source := fs.String("source", "", "payment source id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		rest := fs.Args()
		if len(rest) < 5 {
			return fmt.Errorf("additem needs <month> <kind> <name> <amount> <date>")
		}
		month, err := core.ParseMonth(rest[0])
		if err != nil {
			return err
		}
		cents, err := core.ParseDecimalToCents(rest[3])
		if err != nil {
			return err
		}
		date, err := core.ParseDate(rest[4])
		if err != nil {
			return err
		}
		id, err := svc.AddAdhocInstance(ctx, month, services.AdhocInstanceFields{
			Kind:            core.Kind(rest[1]),
			Name:            rest[2],
			CategoryID:      *category,
			PaymentSourceID: *source,
			ExpectedAmount:  core.Money{Cents: cents},
			ExpectedDate:    date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("added %s %q as %s in %s\n", rest[1], rest[2], id, month)
		return nil

	case "balance":
		if len(args) < 2 {
			return fmt.Errorf("balance needs <month> and at least one <source>=<amount>")
		}
		month, err := core.ParseMonth(args[0])
		if err != nil {
			return err
		}
		balances := map[string]core.Money{}
		for _, pair := range args[1:] {
			id, raw, ok := strings.Cut(pair, "=")
			if !ok || id == "" {
				return fmt.Errorf("malformed balance %q, want <source>=<amount>", pair)
			}
			cents, err := core.ParseBalanceToCents(raw)
			if err != nil {
				return fmt.Errorf("balance for %s: %w", id, err)
			}
			balances[id] = core.Money{Cents: cents}
		}
		if _, err := svc.UpdateBankBalances(ctx, month, balances); err != nil {
			return err
		}
		fmt.Printf("updated %d balance(s) in %s\n", len(balances), month)
		return nil

	case "lock", "unlock":
		month, err := monthArg(args, 0)
		if err != nil {
			return err
		}
		if err := svc.LockMonth(ctx, month, command == "lock"); err != nil {
			return err
		}
		fmt.Printf("%sed %s\n", command, month)
		return nil

	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil

	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func monthArg(args []string, i int) (core.Month, error) {
	if len(args) <= i {
		return core.Month{}, fmt.Errorf("missing month argument")
	}
	return core.ParseMonth(args[i])
}

func occurrenceArgs(fs *flag.FlagSet, args []string) (core.Month, string, string, error) {
	if err := fs.Parse(args); err != nil {
		return core.Month{}, "", "", err
	}
	rest := fs.Args()
	if len(rest) < 3 {
		return core.Month{}, "", "", fmt.Errorf("%s needs <month> <instance> <occurrence>", fs.Name())
	}
	month, err := core.ParseMonth(rest[0])
	if err != nil {
		return core.Month{}, "", "", err
	}
	return month, rest[1], rest[2], nil
}
