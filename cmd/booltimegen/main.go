// Command booltimegen generates boolean timestamp methods and checks live
// tables against the configured declarations.
//
//	booltimegen [generate] [-config booltime.yaml] [-force] [-watch]
//	booltimegen check -dialect postgres -dsn "postgres://..." [-config booltime.yaml]
package main

import (
	"context"
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
	_ "modernc.org/sqlite"

	"github.com/syssam/booltime/compiler/gen"
	"github.com/syssam/booltime/dialect/sql"
	"github.com/syssam/booltime/dialect/sql/schema"
)

const usage = `usage: booltimegen [generate] [flags]
       booltimegen check -dialect <mysql|postgres|sqlite> -dsn <dsn> [flags]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "generate"
	if len(args) > 0 && (args[0] == "generate" || args[0] == "check") {
		cmd, args = args[0], args[1:]
	}
	var err error
	switch cmd {
	case "check":
		err = runCheck(ctx, args, stdout, stderr)
	default:
		err = runGenerate(ctx, args, stderr)
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintln(stderr, "booltimegen:", err)
		return 1
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func flags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	return fs
}

func runGenerate(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flags("generate", stderr)
	var (
		path    = fs.String("config", "booltime.yaml", "generator configuration file")
		force   = fs.Bool("force", false, "regenerate even if the snapshot is unchanged")
		watch   = fs.Bool("watch", false, "regenerate whenever the configuration changes")
		verbose = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := newLogger(stderr, *verbose)
	generate := func(ctx context.Context) error {
		cfg, err := gen.LoadConfig(*path)
		if err != nil {
			return err
		}
		if err := cfg.Apply(gen.WithForce(*force), gen.WithLogger(log)); err != nil {
			return err
		}
		_, err = gen.Generate(ctx, cfg)
		return err
	}
	if err := generate(ctx); err != nil {
		if !*watch {
			return err
		}
		log.ErrorContext(ctx, "generation failed", "error", err)
	}
	if !*watch {
		return nil
	}
	return watchFile(ctx, *path, log, generate)
}

func runCheck(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flags("check", stderr)
	var (
		path    = fs.String("config", "booltime.yaml", "generator configuration file")
		name    = fs.String("dialect", "", "database dialect: mysql, postgres or sqlite")
		dsn     = fs.String("dsn", "", "data source name")
		verbose = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *dsn == "" {
		fs.Usage()
		return errors.New("check requires -dialect and -dsn")
	}
	log := newLogger(stderr, *verbose)
	cfg, err := gen.LoadConfig(*path)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(cfg)
	if err != nil {
		return err
	}
	drv, err := sql.Open(*name, *dsn)
	if err != nil {
		return err
	}
	defer drv.Close()
	checker, err := schema.NewChecker(drv)
	if err != nil {
		return err
	}
	failed := 0
	for _, t := range g.Nodes {
		res, err := checker.Check(ctx, t.Table, t.Decls()...)
		if err != nil {
			log.ErrorContext(ctx, "check failed", "type", t.Name, "table", t.Table, "error", err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s (%s):\n%s\n", t.Name, t.Table, res)
		if res.HasErrors() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tables failed the check", failed, len(g.Nodes))
	}
	return nil
}
