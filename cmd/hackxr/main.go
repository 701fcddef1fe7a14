package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/iamshreeyyy/hackxr"
	"github.com/iamshreeyyy/hackxr/ai"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/parser"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "hackxr",
		Usage: "Policy document retrieval and claim decision pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Ingest policy documents and decide a claim query",
				ArgsUsage: "QUERY",
				Action:    processCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "doc",
						Aliases:  []string{"d"},
						Usage:    "Policy document to ingest (PDF, DOCX or TXT); repeatable",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "all-minilm",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Skip the embedding service and use hashed embeddings",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum relevance score for retrieved clauses",
						Value: 0.6,
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of retrieved clauses",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "audit",
						Usage: "Print the audit report after the decision",
					},
				},
			},
			{
				Name:      "parse",
				Usage:     "Extract plain text from a policy document",
				ArgsUsage: "FILE",
				Action:    parseCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func processCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	query := c.Args().First()

	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = c.Float64("threshold")
	cfg.MaxResults = c.Int("max-results")

	opts := []hackxr.SystemOption{hackxr.WithConfig(cfg)}
	if c.Bool("offline") {
		opts = append(opts, hackxr.WithOfflineEmbeddings())
	} else {
		opts = append(opts, hackxr.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)))
	}

	sys, err := hackxr.NewSystem(opts...)
	if err != nil {
		return err
	}
	defer sys.Close()

	ctx := c.Context
	for _, doc := range c.StringSlice("doc") {
		result, err := sys.IngestFile(ctx, doc)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", doc, err)
		}
		fmt.Printf("Ingested %s: %d/%d chunks indexed\n",
			result.SourceDocument, result.IndexedCount, result.ChunkCount)
	}

	resp, err := sys.ProcessQuery(ctx, query)
	if err != nil {
		return err
	}

	fmt.Printf("\nDecision:   %s\n", resp.Decision)
	fmt.Printf("Confidence: %.2f\n", resp.Confidence)
	if resp.Amount != nil {
		fmt.Printf("Amount:     %.2f\n", *resp.Amount)
	}
	fmt.Printf("Trace:      %s\n", resp.TraceId)
	fmt.Printf("\n%s\n", resp.Justification)

	if len(resp.Evidence) > 0 {
		fmt.Println("\nRetrieved clauses:")
		for _, ev := range resp.Evidence {
			fmt.Printf("  [%.2f] %s: %s\n", ev.RelevanceScore, ev.DocumentName, ev.Text)
		}
	}

	if c.Bool("audit") {
		fmt.Printf("\n%s\n", sys.AuditReport())
	}
	return nil
}

func parseCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	doc, err := parser.Parse(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Printf("# %s (%s, %d units)\n\n%s\n", doc.Name, doc.Format, doc.Units, doc.Text)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
