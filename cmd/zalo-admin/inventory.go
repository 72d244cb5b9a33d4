package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Classify a chat message and print the intent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()
			classifier := usecase.NewClassifierUsecase(data.NewOpenAIClient(cfg.LLM, logger), cfg.ToClassifierConfig(), logger)

			intent := classifier.Classify(cmd.Context(), strings.Join(args, " "))
			return printJSON(intent)
		},
	}
}

func checkStockCmd() *cobra.Command {
	var barcodes []string
	var name string

	cmd := &cobra.Command{
		Use:   "check-stock [sku...]",
		Short: "Look up stock by SKU, barcode or product name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repos, err := openRepositories()
			if err != nil {
				return err
			}
			defer repos.Close()

			logger := newLogger()
			parser := usecase.NewQueryParserUsecase(repos.LLM, cfg.ToQueryParserConfig(), logger)
			inventory := usecase.NewInventoryUsecase(repos.Item, repos.Search, parser, logger)

			params := map[string]any{}
			if len(args) > 0 {
				params["skus"] = toAny(args)
			}
			if len(barcodes) > 0 {
				params["barcodes"] = toAny(barcodes)
			}
			if name != "" {
				params["product_name"] = name
			}

			result := inventory.CheckStock(cmd.Context(), params)
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&barcodes, "barcode", nil, "barcodes to look up")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	return cmd
}

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the product search index from the item table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repos, err := openRepositories()
			if err != nil {
				return err
			}
			defer repos.Close()

			n, err := usecase.NewIndexSyncUsecase(repos.Item, repos.Search, newLogger()).Resync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d items\n", n)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var (
		limit     int
		eventType string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent webhook records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repos, err := openRepositories()
			if err != nil {
				return err
			}
			defer repos.Close()

			ctx := cmd.Context()
			records, err := repos.Conversation.List(ctx, limit, 0)
			if eventType != "" {
				records, err = repos.Conversation.ListByEventType(ctx, eventType, limit, 0)
			}
			if err != nil {
				return err
			}

			for _, r := range records {
				fmt.Printf("%s  %-20s  %-12s  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.EventType, r.GroupID, r.MessageText)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records")
	cmd.Flags().StringVar(&eventType, "event", "", "only show this event type")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
