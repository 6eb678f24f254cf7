// Command payproc replays a transaction CSV and prints the resulting
// account summary CSV on stdout. Diagnostics go to stderr so the report
// stays clean for piping.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/ingest"
	"github.com/punchamoorthee/payproc/internal/report"
	"github.com/punchamoorthee/payproc/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: payproc <transactions.csv>")
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	f, err := os.Open(os.Args[1])
	if err != nil {
		logger.Fatal("could not open input file", zap.Error(err))
	}
	defer f.Close()

	accounts := store.NewAccountStore()
	if err := ingest.Process(accounts, f, logger); err != nil {
		logger.Fatal("could not process input file", zap.Error(err))
	}

	if err := report.Write(accounts, os.Stdout); err != nil {
		logger.Fatal("could not generate report", zap.Error(err))
	}
}
