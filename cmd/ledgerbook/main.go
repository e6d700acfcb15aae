package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"ledgerbook/internal/config"
	"ledgerbook/internal/database"
	"ledgerbook/internal/ledger"
	"ledgerbook/internal/log"
	"ledgerbook/internal/maintenance"
)

const usage = `usage: ledgerbook <command> [args]

commands:
  init                    create the database, schema and seed data
  summary                 print ledger-wide income/expense/balance totals
  recent [n]              print the n most recent transactions (default 8)
  tree                    print the year/month ledger tree
  create-year <year>      create a year with all twelve months
  create-month <y> <m>    create a single month
  delete-year <year>      delete a year and everything under it (asks -force)
  backup                  copy the database file into the backup directory
  reset                   delete the database file (asks -force)
`

func main() {
	// .env is for local development; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	logger := log.New(log.ParseLevel(cfg.Log.Level), "cli")

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := args[0], args[1:]

	// file-level commands run without opening the database
	switch cmd {
	case "backup":
		path, err := maintenance.Backup(cfg.Database.Path, cfg.Backup.Dir)
		if err != nil {
			fatal(err)
		}
		fmt.Println(path)
		return
	case "reset":
		if !hasForce(args) {
			fatal(fmt.Errorf("reset is destructive; re-run with -force"))
		}
		if err := maintenance.Reset(cfg.Database.Path); err != nil {
			fatal(err)
		}
		logger.Info("database removed", "path", cfg.Database.Path)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		fatal(err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	svc := ledger.New(db, logger)

	switch cmd {
	case "init":
		if err := svc.Initialize(ctx); err != nil {
			fatal(err)
		}
		fmt.Println(cfg.Database.Path)

	case "summary":
		s, err := svc.Summary(ctx)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("income  %12s\nexpense %12s\nbalance %12s\n",
			ledger.FormatCents(s.IncomeCents),
			ledger.FormatCents(s.ExpenseCents),
			ledger.FormatCents(s.BalanceCents))

	case "recent":
		limit := 8
		if len(args) > 0 {
			limit, err = strconv.Atoi(args[0])
			if err != nil {
				fatal(fmt.Errorf("recent: %q is not a number", args[0]))
			}
		}
		txs, err := svc.RecentTransactions(ctx, limit)
		if err != nil {
			fatal(err)
		}
		for _, t := range txs {
			cat := "(none)"
			if t.CategoryName != nil {
				cat = *t.CategoryName
			}
			fmt.Printf("%s  %-8s %10s  %-20s %s\n",
				t.Date.Format("2006-01-02"), t.Type, ledger.FormatCents(t.AmountCents), cat, t.Title)
		}

	case "tree":
		tree, err := svc.Tree(ctx)
		if err != nil {
			fatal(err)
		}
		for _, y := range tree {
			months := make([]string, 0, len(y.Periods))
			for _, p := range y.Periods {
				months = append(months, strconv.Itoa(p.Month))
			}
			fmt.Printf("%d: [%s]\n", y.Year, strings.Join(months, " "))
		}

	case "create-year":
		year := mustInt(args, 0, "create-year <year>")
		if err := svc.CreateYear(ctx, year); err != nil {
			fatal(err)
		}

	case "create-month":
		year := mustInt(args, 0, "create-month <year> <month>")
		month := mustInt(args, 1, "create-month <year> <month>")
		p, err := svc.CreateMonth(ctx, year, month)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("period %d (%d-%02d)\n", p.ID, p.Year, p.Month)

	case "delete-year":
		year := mustInt(args, 0, "delete-year <year>")
		if !hasForce(args) {
			fatal(fmt.Errorf("delete-year removes all transactions in %d; re-run with -force", year))
		}
		if err := svc.DeleteYear(ctx, year); err != nil {
			fatal(err)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func mustInt(args []string, idx int, usageHint string) int {
	if idx >= len(args) {
		fatal(fmt.Errorf("usage: ledgerbook %s", usageHint))
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		fatal(fmt.Errorf("%q is not a number", args[idx]))
	}
	return n
}

func hasForce(args []string) bool {
	for _, a := range args {
		if a == "-force" || a == "--force" {
			return true
		}
	}
	return false
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ledgerbook: %v\n", err)
	os.Exit(1)
}
