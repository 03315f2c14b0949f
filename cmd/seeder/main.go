package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/employee_details/internal/bootstrap"
	"github.com/locvowork/employee_details/internal/seed"
)

// fileList collects repeated -file flags.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	defaults := seed.DefaultOptions()

	// Define flags
	var files fileList
	flag.Var(&files, "file", "YAML fixture to load (repeatable)")
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	workers := flag.Int("workers", defaults.Workers, "Number of concurrent save workers")
	retries := flag.Int("retries", defaults.Retries, "Retries per employee when a save fails")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt of -action clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 Employee Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize app
	fmt.Println("📡 Initializing storage...")
	app := bootstrap.NewApp()
	if err := app.InitializeServices(ctx); err != nil {
		app.Close()
		log.Fatal(err)
	}
	defer app.Close()

	// Execute action
	switch *action {
	case "seed":
		if len(files) == 0 {
			fmt.Println("❌ At least one -file is required")
			flag.PrintDefaults()
			return
		}
		opts := defaults
		opts.Workers = *workers
		opts.Retries = *retries
		performSeed(ctx, app, files, opts)

	case "clear":
		performClear(ctx, app, *yes)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\n✅ Done!")
}

func performSeed(ctx context.Context, app *bootstrap.App, files []string, opts seed.Options) {
	sources := make([][]seed.Record, 0, len(files))
	for _, path := range files {
		records, err := seed.LoadFile(path)
		if err != nil {
			app.Close()
			log.Fatalf("❌ Loading fixtures failed: %v", err)
		}
		fmt.Printf("📄 %s: %d employees\n", path, len(records))
		sources = append(sources, records)
	}

	res, err := seed.Run(ctx, app.Service, sources, opts)
	if err != nil {
		app.Close()
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	fmt.Printf("📊 Saved: %d, skipped: %d, failed: %d\n", res.Saved, res.Skipped, res.Failed)
}

func performClear(ctx context.Context, app *bootstrap.App, skipPrompt bool) {
	if !skipPrompt {
		fmt.Println("⚠️  This will delete every employee!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}

	n, err := seed.Clear(ctx, app.Service)
	if err != nil {
		app.Close()
		log.Fatalf("❌ Clear failed after %d deletions: %v", n, err)
	}
	fmt.Printf("🗑️  Deleted %d employees\n", n)
}
