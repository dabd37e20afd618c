package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dataDirFlag string
	workers     int
)

var rootCmd = &cobra.Command{
	Use:   "podtag [feeds-file]",
	Short: "Download podcast episodes and normalize their audio tags",
	Long: `podtag fetches configured podcast feeds, downloads new episodes,
rewrites each episode's embedded tags from normalized feed metadata, and
files the audio under a per-feed path pattern. Completed episodes are
remembered, so rerunning only picks up what is new.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, err := resolveDataDir(dataDirFlag)
		if err != nil {
			log.Fatalf("Resolving data directory: %v", err)
		}
		settings := Settings{DataDir: dataDir, Workers: workers}
		if settings.Workers < 1 {
			settings.Workers = 1
		}

		// Directory setup is fatal; nothing downstream can recover from a
		// missing data dir.
		if err := initDirs(settings); err != nil {
			log.Fatalf("Initializing %s: %v", settings.DataDir, err)
		}

		feedsPath := filepath.Join(settings.DataDir, defaultFeedsFile)
		if len(args) > 0 {
			feedsPath = args[0]
		}
		feeds, err := loadFeeds(feedsPath)
		if err != nil {
			log.Fatalf("Loading feeds: %v", err)
		}
		if len(feeds) == 0 {
			log.Printf("No feeds configured in %s", feedsPath)
			return
		}

		processor, err := NewProcessor(settings, feeds)
		if err != nil {
			log.Fatalf("Creating processor: %v", err)
		}

		// An interrupt stops submission of new work; entries already in
		// flight finish.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results := processor.Run(ctx)

		var processed, skipped, failed int
		for _, r := range results {
			switch r.Status {
			case StatusSuccess:
				processed++
			case StatusSkipped:
				skipped++
			case StatusError:
				failed++
			}
		}
		log.Printf("Done: %d processed, %d skipped, %d failed", processed, skipped, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Data directory root (default $PODTAG_DATA or the working directory)")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "Number of concurrent entry workers")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
