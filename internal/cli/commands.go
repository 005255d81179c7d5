package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/physref/quicksheet/internal/catalog"
	"github.com/physref/quicksheet/internal/clip"
	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/rank"
	"github.com/physref/quicksheet/internal/seed"
	"github.com/physref/quicksheet/internal/store"
)

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("QUICKSHEET_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

// loadPrefs reads the stored preference blob for this database.
func loadPrefs(db *store.DB) (prefs.Prefs, error) {
	raw, err := db.GetPrefs()
	if err != nil {
		return prefs.Default(), err
	}
	return prefs.Parse(raw), nil
}

// cliRank runs one ranking pass with the live usage counters. Every
// CLI invocation is its own pass, so there is no snapshot to freeze.
func cliRank(db *store.DB, query, category string) (rank.Result, prefs.Prefs, error) {
	p, err := loadPrefs(db)
	if err != nil {
		return rank.Result{}, p, err
	}
	view, err := rank.SnapshotView(db)
	if err != nil {
		return rank.Result{}, p, err
	}
	items, err := db.GetAll()
	if err != nil {
		return rank.Result{}, p, err
	}
	res := rank.Rank(items, view, rank.Request{
		Query:        query,
		Category:     category,
		Mode:         p.RankingMode,
		HalfLifeDays: p.RankingHalfLifeDays,
	})
	return res, p, nil
}

// --- search command ---

var (
	searchCategory string
	searchLimit    int
	searchLatex    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search equations and constants",
	Long:  "Search the catalog with fuzzy matching. Without a query, lists everything in the current browsing order.",
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	res, _, err := cliRank(db, query, searchCategory)
	if err != nil {
		return err
	}
	if len(res.Sections) == 0 {
		fmt.Println("no matches")
		return nil
	}

	shown := 0
	for _, sec := range res.Sections {
		fmt.Printf("%s\n", sec.Category)
		for _, it := range sec.Items {
			if searchLimit > 0 && shown >= searchLimit {
				return nil
			}
			fmt.Printf("  %s\n", clip.FormatItem(it.Item, searchLatex))
			shown++
		}
	}
	return nil
}

// --- copy command ---

var copyCategory string

var copyCmd = &cobra.Command{
	Use:   "copy [query]",
	Short: "Print the top result's copy text and record the use",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	res, p, err := cliRank(db, query, copyCategory)
	if err != nil {
		return err
	}
	top := res.TopResult()
	if top == nil {
		return fmt.Errorf("no match for %q", query)
	}

	if err := db.MarkUsed(top.ID); err != nil {
		return fmt.Errorf("record use: %w", err)
	}
	fmt.Println(clip.Build(top.Item, p))
	return nil
}

// --- list command ---

var listMarkdown bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the full catalog grouped by category",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	res, _, err := cliRank(db, "", "")
	if err != nil {
		return err
	}
	if len(res.Sections) == 0 {
		fmt.Println("catalog is empty; run `quicksheet seed` to load the starter set")
		return nil
	}

	for _, sec := range res.Sections {
		if listMarkdown {
			fmt.Printf("## %s\n\n", sec.Category)
		} else {
			fmt.Printf("%s\n", sec.Category)
		}
		for _, it := range sec.Items {
			if listMarkdown {
				fmt.Printf("%s\n\n", clip.ToMarkdown(it.Item))
			} else {
				fmt.Printf("  %s\n", clip.FormatItem(it.Item, false))
			}
		}
	}
	return nil
}

// --- import / export commands ---

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import items from a JSON file (\"-\" for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	r := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	n, err := catalog.Import(db, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "imported %d items\n", n)
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all items as JSON to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		return catalog.Export(db, os.Stdout)
	},
}

// --- seed command ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in starter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		n, err := seed.Apply(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "seeded %d items\n", n)
		return nil
	},
}

// --- reset-learning command ---

var resetLearningCmd = &cobra.Command{
	Use:   "reset-learning",
	Short: "Forget all copy counts and recency",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := db.ResetLearning(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "learning reset")
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Filter by category")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of results (0 = all)")
	searchCmd.Flags().BoolVar(&searchLatex, "latex", false, "Render entries as LaTeX")

	copyCmd.Flags().StringVarP(&copyCategory, "category", "c", "", "Filter by category")

	listCmd.Flags().BoolVar(&listMarkdown, "markdown", false, "Render as markdown")
}
