/*
tsqlgen renders SQL templates for the tables declared in a YAML schema file and
checks the declarations against a live database.

Usage:

	tsqlgen [-config tsqlgen.yaml] [-v] render
	tsqlgen [-config tsqlgen.yaml] [-v] check

`render` prints SELECT, INSERT and UPDATE templates for every table. `check`
selects one row from every table through its declared row shape and reports
tables whose columns don't exist or don't decode.
*/
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/mitranim/tsql"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "tsqlgen: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("tsqlgen", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "tsqlgen.yaml", "Path to the YAML schema file")
	verbose := flags.Bool("v", false, "Log every executed statement")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	tables := buildTables(cfg)

	switch cmd := flags.Arg(0); cmd {
	case "render":
		return render(stdout, cfg, tables)
	case "check":
		return check(ctx, logger, cfg, tables)
	case "":
		return errors.New("missing command, expected render or check")
	default:
		return fmt.Errorf("unknown command %q, expected render or check", cmd)
	}
}

func render(out io.Writer, cfg *Config, tables []Table) error {
	for i, table := range tables {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "-- %s\n", table.Name())
		for _, query := range templates(cfg, table) {
			if _, err := fmt.Fprintln(out, query.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// SELECT, INSERT and UPDATE templates of the table, with placeholders only.
func templates(cfg *Config, table Table) []tsql.SqlQuery {
	cols := placeholderArgs(table.Row().Names())
	aliased := placeholderArgs(table.AliasedRow().Names())
	if cfg.Quote {
		cols = cols.Quoted()
		aliased = aliased.Quoted()
	}

	queries := []tsql.SqlQuery{
		{Text: `SELECT ` + aliased.NamesString() + ` FROM ` + table.Alias.From()},
		{Text: `INSERT INTO ` + table.Name() + ` ` + cols.NamesAndValuesString(), Args: cols.Values()},
		{Text: `UPDATE ` + table.Name() + ` SET ` + cols.AssignmentsString(), Args: cols.Values()},
	}

	if cfg.Positional() {
		for i := range queries {
			queries[i] = queries[i].Positional()
		}
	}
	return queries
}

func placeholderArgs(names []string) tsql.SqlArgs {
	args := make(tsql.SqlArgs, len(names))
	for i, name := range names {
		args[i] = tsql.SqlArg{Name: name}
	}
	return args
}

type checkResult struct {
	rows int
	err  error
}

func check(ctx context.Context, logger *slog.Logger, cfg *Config, tables []Table) error {
	if cfg.DSN == "" {
		return errors.New("check requires a dsn")
	}

	db, err := sql.Open(driverNames[cfg.Driver], cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var conn tsql.Conn = tsql.LogQueryer{Conn: db, Logger: logger}
	results := make([]checkResult, len(tables))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, table := range tables {
		g.Go(func() error {
			rows, err := checkTable(ctx, conn, cfg, table)
			results[i] = checkResult{rows: rows, err: err}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for i, table := range tables {
		res := results[i]
		if res.err != nil {
			failed++
			logger.Error("table check failed", "table", table.Name(), "error", res.err)
			continue
		}
		logger.Info("table ok", "table", table.Name(), "columns", table.Row().Width(), "rows", res.rows)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tables failed the check", failed, len(tables))
	}
	return nil
}

func checkTable(ctx context.Context, conn tsql.Queryer, cfg *Config, table Table) (int, error) {
	query := tsql.Select(table.AliasedRow(), table.Alias.From())
	query.Append(`LIMIT 1`)
	if cfg.Positional() {
		query = query.Positional()
	}

	rows, err := tsql.QueryAll(ctx, conn, table.AliasedRow(), query)
	return len(rows), err
}
