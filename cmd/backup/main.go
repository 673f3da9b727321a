package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"summerlit/internal/config"
	"summerlit/internal/content"
	"summerlit/internal/credentials"
	"summerlit/internal/progress"
	"summerlit/internal/service"
	"summerlit/internal/storage"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOutput := exportCmd.String("output", "", "Output file path (default: progress_YYYYMMDD_HHMMSS.json)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importInput := importCmd.String("input", "", "Input file path (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	objects, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object store: %v", err)
	}

	credLoader := credentials.NewLoader(objects, cfg.RootPrefix)
	authService := service.NewAuthService(objects, credLoader, cfg.RootPrefix)
	activityService := service.NewActivityService(
		content.NewLoader(objects),
		content.NewCache(),
		progress.NewStore(objects),
	)
	backupService := service.NewBackupService(authService, activityService, cfg.RootPrefix)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		output := *exportOutput
		if output == "" {
			output = fmt.Sprintf("progress_%s.json", time.Now().Format("20060102_150405"))
		}
		if err := backupService.Export(ctx, output); err != nil {
			log.Fatalf("Export failed: %v", err)
		}

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := backupService.Import(ctx, *importInput); err != nil {
			log.Fatalf("Import failed: %v", err)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  backup export [-output FILE]   Export every student's progress to a JSON file")
	fmt.Println("  backup import -input FILE      Restore progress records from a JSON file")
}
