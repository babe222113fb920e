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
	"github.com/A-dvika/MindMaven/internal/mindmap"
	"github.com/A-dvika/MindMaven/internal/outline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a mind map for a topic",
	Long: `Asks the configured LLM for a hierarchical outline of the topic and
prints it as a markdown outline. The map is saved to local history
and can be exported or re-opened in the browser UI.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("depth", 0, "levels to generate (1-10, 0 uses the config default)")
	generateCmd.Flags().Bool("json", false, "print the full tree and diagram as JSON")
	generateCmd.Flags().String("out", "", "write the map to a file instead of stdout")
	generateCmd.Flags().String("format", "markdown", "output format: markdown or html")
	generateCmd.Flags().Bool("no-save", false, "skip saving the map to history")
	rootCmd.AddCommand(generateCmd)
}

// generateOutput is the --json shape: the tree plus the fully expanded
// diagram, ready for any renderer.
type generateOutput struct {
	Topic        string            `json:"topic"`
	Depth        int               `json:"depth"`
	Tree         *mindmap.TreeNode `json:"tree"`
	Diagram      mindmap.Diagram   `json:"diagram"`
	NodeCount    int               `json:"node_count"`
	InputTokens  int               `json:"input_tokens"`
	OutputTokens int               `json:"output_tokens"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	topic := args[0]

	depth, _ := cmd.Flags().GetInt("depth")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	noSave, _ := cmd.Flags().GetBool("no-save")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if depth == 0 {
		depth = cfg.DefaultDepth
	}
	depth = outline.ClampDepth(depth)

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Generating mind map for %q (depth %d, %s)...\n", topic, depth, cfg.Model)

	gen := outline.NewGenerator(provider, cfg.Model)
	result, err := gen.Generate(ctx, topic, depth)
	if err != nil {
		return fmt.Errorf("generating outline: %w", err)
	}

	if !noSave {
		if err := saveToHistory(ctx, cfg.DataDir, topic, depth, string(cfg.Provider), cfg.Model, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save to history: %v\n", err)
		}
	}

	var output string
	switch {
	case jsonOutput:
		nodes, edges := mindmap.Layout(result.Tree, mindmap.NewExpandedSet(allIDs(result.Tree)...), cfg.Layout.OriginX, cfg.Layout.OriginY)
		raw, err := json.MarshalIndent(generateOutput{
			Topic:        topic,
			Depth:        depth,
			Tree:         result.Tree,
			Diagram:      mindmap.Diagram{Nodes: nodes, Edges: edges},
			NodeCount:    mindmap.CountNodes(result.Tree),
			InputTokens:  result.InputTokens,
			OutputTokens: result.OutputTokens,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		output = string(raw) + "\n"
	case format == "html":
		output, err = export.HTML(result.Tree)
		if err != nil {
			return fmt.Errorf("rendering HTML: %w", err)
		}
	case format == "markdown":
		output = export.Markdown(result.Tree)
	default:
		return fmt.Errorf("unknown format %q (want markdown or html)", format)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d nodes)\n", outPath, mindmap.CountNodes(result.Tree))
		return nil
	}
	fmt.Print(output)
	return nil
}

func saveToHistory(ctx context.Context, dataDir, topic string, depth int, provider, model string, result *outline.Result) error {
	database, err := db.Open(filepath.Join(dataDir, "mindmaven.db"))
	if err != nil {
		return err
	}
	defer database.Close()

	return history.NewStore(database).Save(ctx, &history.Record{
		Topic:        topic,
		Depth:        depth,
		Provider:     provider,
		Model:        model,
		Tree:         result.Tree,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
	})
}

// allIDs walks the tree collecting every node id, for rendering the
// map fully expanded.
func allIDs(tree *mindmap.TreeNode) []string {
	var ids []string
	var walk func(n *mindmap.TreeNode, id string)
	walk = func(n *mindmap.TreeNode, id string) {
		ids = append(ids, id)
		for i, child := range n.SubNodes {
			walk(child, mindmap.ChildID(id, i))
		}
	}
	if tree != nil {
		walk(tree, mindmap.RootID)
	}
	return ids
}
