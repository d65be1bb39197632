package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"textbook/internal/config"
	"textbook/internal/makeedu"
	"textbook/internal/reconcile"
)

// Sync agent: reads a saved MakeEdu roster page, extracts each
// student's book and payment checkbox, and reconciles every row against
// the textbook API. Rows the system does not know are reported, not
// treated as failures.
func main() {
	cfg := config.Load()

	file := flag.String("file", "", "path to a saved roster HTML page")
	apiBase := flag.String("api", cfg.SyncAPIBase, "textbook API base URL")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: syncagent -file roster.html [-api http://host:port]")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	rows, err := makeedu.ExtractRows(f)
	if err != nil {
		log.Fatalf("parse roster: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("no student rows found in page")
	}

	client := makeedu.NewClient(*apiBase)
	ctx := context.Background()

	if err := client.Health(ctx); err != nil {
		log.Fatalf("api not reachable: %v", err)
	}

	var synced, notFound, ambiguous, failed int
	for _, row := range rows {
		result, err := client.Sync(ctx, row)
		if err != nil {
			failed++
			fmt.Printf("x %s: %v\n", row.StudentName, err)
			continue
		}
		switch result.Outcome {
		case reconcile.OutcomeMatched:
			synced++
			paid := "unpaid"
			if row.IsPaid {
				paid = "paid"
			}
			fmt.Printf("+ %s (%s) -> %s\n", row.StudentName, paid, result.Matched.ID)
		case reconcile.OutcomeNotFound:
			notFound++
			fmt.Printf("- %s: no matching request\n", row.StudentName)
		case reconcile.OutcomeAmbiguous:
			ambiguous++
			fmt.Printf("? %s: %d candidates, pick one manually:\n", row.StudentName, len(result.Candidates))
			for _, cand := range result.Candidates {
				fmt.Printf("    %s (%s / %s)\n", cand.ID, cand.BookName, cand.TeacherName)
			}
		}
	}

	fmt.Printf("\ndone: %d synced, %d unknown, %d ambiguous, %d failed (of %d rows)\n",
		synced, notFound, ambiguous, failed, len(rows))
	if failed > 0 {
		os.Exit(1)
	}
}
