package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/A-dvika/MindMaven/internal/db"
	"github.com/A-dvika/MindMaven/internal/export"
	"github.com/A-dvika/MindMaven/internal/history"
	"github.com/A-dvika/MindMaven/internal/vectordb"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously generated mind maps",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved mind maps",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved mind map as a markdown outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved mind map",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search saved mind maps",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

func init() {
	historyListCmd.Flags().String("topic", "", "filter by topic substring")
	historyListCmd.Flags().Int("limit", 20, "maximum number of maps")
	historyListCmd.Flags().Bool("json", false, "output as JSON")
	historySearchCmd.Flags().Int("limit", 5, "maximum number of results")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historySearchCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryStore() (*history.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "mindmaven.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, closeDB, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := store.List(context.Background(), history.ListFilter{Topic: topic, Limit: limit})
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("No saved mind maps. Run `mindmaven generate` to create one.")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-30s  %d nodes  depth %d  %s\n",
			rec.ID, rec.Topic, rec.NodeCount, rec.Depth, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer closeDB()

	rec, err := store.GetByID(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading mind map: %w", err)
	}
	fmt.Print(export.Markdown(rec.Tree))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting mind map: %w", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	ctx := context.Background()
	if err := store.Load(ctx, cfg.DataDir); err != nil {
		return fmt.Errorf("loading map index from %s: %w\nStart `mindmaven server` and generate some maps first", cfg.DataDir, err)
	}

	matches, err := store.FindRelated(ctx, args[0], limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("No related mind maps found.")
		return nil
	}
	for i, m := range matches {
		fmt.Printf("%d. %s (%.0f%% match, id %s)\n", i+1, m.Entry.Topic, m.Similarity*100, m.Entry.ID)
	}
	return nil
}
