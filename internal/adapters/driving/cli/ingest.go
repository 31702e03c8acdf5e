package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/compass-embed/internal/connectors/filesystem"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

var (
	ingestInclude    []string
	ingestExclude    []string
	ingestWatch      bool
	ingestNoProgress bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest documents from a directory",
	Long: `Loads every PDF, DOCX and text file under a directory, splits it into
chunks, embeds the chunks and upserts them into the collection.

The directory defaults to ingest.input_dir (./data). Files are selected with
doublestar patterns from ingest.include and ingest.exclude, or --include and
--exclude. Ingesting the same files again replaces their records.

With --watch the command keeps running and ingests files as they are created
or modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "doublestar patterns of files to ingest")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "doublestar patterns of files to skip")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep running and ingest changed files")
	ingestCmd.Flags().BoolVar(&ingestNoProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	settings, err := activeSettings()
	if err != nil {
		return err
	}
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := settings.Ingest.InputDir
	if len(args) == 1 {
		dir = args[0]
	}
	include := settings.Ingest.Include
	if len(ingestInclude) > 0 {
		include = ingestInclude
	}
	exclude := settings.Ingest.Exclude
	if len(ingestExclude) > 0 {
		exclude = ingestExclude
	}

	conn := filesystem.New(dir, include, exclude)
	defer conn.Close()

	ctx := cmd.Context()

	logger.Section("Ingest")
	files, err := conn.Discover(ctx)
	if err != nil {
		return err
	}
	docs, err := conn.LoadAll(ctx, files)
	if err != nil {
		return err
	}

	cmd.Println()
	cmd.Println("Loaded documents:")
	for _, f := range files {
		cmd.Printf("- %s  (type: %s)\n", f.Path, f.Ext())
	}

	before, err := ingestService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	cmd.Println()
	cmd.Printf("Before ingestion, collection has: %d embeddings\n", before)

	if setter, ok := ingestService.(progressReporterSetter); ok {
		setter.SetProgressReporter(newProgress(ingestNoProgress))
	}
	result, err := ingestService.IngestBatch(ctx, docs)
	if err != nil {
		return err
	}
	logger.Info("created %d chunks from %d characters", result.ChunksCreated, result.TotalCharacters)

	after, err := ingestService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	cmd.Printf("After ingestion, collection has: %d embeddings\n", after)
	cmd.Printf("Ingestion complete! Vector store saved to %s\n", storeLocation(settings))

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(cmd, conn)
}

// watchAndIngest ingests created and modified files until interrupted.
// A failing file is reported and skipped.
func watchAndIngest(cmd *cobra.Command, conn *filesystem.Connector) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes, err := conn.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)\n", conn.Root())

	for change := range changes {
		if change.Type == filesystem.ChangeDeleted {
			cmd.Printf("- %s  deleted; its embeddings remain in the collection\n", change.Path)
			continue
		}

		doc, err := conn.Load(change.Path)
		if err != nil {
			logger.Error("%v", err)
			continue
		}
		result, err := ingestService.Ingest(ctx, &doc)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("ingest %s: %v", change.Path, err)
			continue
		}
		cmd.Printf("- %s  (%s, %d chunks)\n", change.Path, change.Type, result.ChunksCreated)
	}
	return nil
}
