// Command archivestats prints summary statistics for one or more parquet
// verdict archives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/icryptohunter/SnakeGame-SP1/db"
)

func main() {
	archiveDirs := flag.String("archive-dirs", "archive", "Comma-separated archive root directories")
	recent := flag.Int("recent", 10, "Number of recent rejections to list")
	flag.Parse()

	roots := strings.Split(*archiveDirs, ",")

	archive, err := db.Open(roots)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer archive.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stats, err := archive.Summary(ctx)
	if err != nil {
		log.Fatalf("Summary query failed: %v", err)
	}

	fmt.Printf("Sessions verified: %d\n", stats.Total)
	fmt.Printf("  Valid:    %d\n", stats.Valid)
	fmt.Printf("  Rejected: %d\n", stats.Rejected)

	if stats.Rejected == 0 {
		return
	}

	kinds, err := archive.RejectionsByKind(ctx)
	if err != nil {
		log.Fatalf("Rejection breakdown failed: %v", err)
	}
	fmt.Printf("\nRejections by kind:\n")
	for _, kc := range kinds {
		fmt.Printf("  %-18s %d\n", kc.Kind, kc.Count)
	}

	if *recent <= 0 {
		return
	}
	rejections, err := archive.RecentRejections(ctx, *recent)
	if err != nil {
		log.Fatalf("Recent rejections failed: %v", err)
	}
	fmt.Printf("\nMost recent rejections:\n")
	for _, r := range rejections {
		at := time.UnixMilli(r.VerifiedAtMs).Format(time.RFC3339)
		fmt.Printf("  %s  %s  kind=%s claimed=%d replayed=%d source=%s\n",
			at, r.SessionID, r.ErrorKind, r.ClaimedScore, r.ReplayedScore, r.Source)
	}
}
