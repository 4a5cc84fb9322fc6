package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/nav/internal/category"
	"github.com/nikbrunner/nav/internal/exporter"
	"github.com/nikbrunner/nav/internal/importer"
	"github.com/nikbrunner/nav/internal/model"
	"github.com/nikbrunner/nav/internal/placement"
	"github.com/nikbrunner/nav/internal/search"
	"github.com/nikbrunner/nav/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: nav import <file.json|file.html>\n")
			os.Exit(1)
		}
		runImport(os.Args[2])
	case "export":
		var outputPath string
		if len(os.Args) >= 3 {
			outputPath = os.Args[2]
		}
		runExport(outputPath)
	case "add":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: nav add <url> [category name]\n")
			os.Exit(1)
		}
		runAdd(os.Args[2], strings.Join(os.Args[3:], " "))
	case "orphans":
		cleanup := len(os.Args) >= 3 && os.Args[2] == "--cleanup"
		runOrphans(cleanup)
	case "list":
		runList()
	default:
		// Treat as search query (join all remaining args)
		runSearch(strings.Join(os.Args[1:], " "))
	}
}

func printHelp() {
	help := `nav - personal link directory

Usage:
  nav <query>               Search links by title, description, URL or tags
  nav list                  Print the category tree with its links
  nav add <url> [category]  Add a link, appended to the named category
                            (or the default category)
  nav import <file>         Merge a backup, browser bookmark dump or
                            bookmark HTML file into the directory
  nav export [path]         Export the directory (.html for bookmark HTML,
                            anything else for the native JSON backup;
                            --html writes bookmark HTML to ~/Downloads)
  nav orphans [--cleanup]   List (or delete) orphaned categories
  nav help                  Show this help

Data Storage:
  ~/.config/nav/nav.db
`
	fmt.Print(help)
}

// openStore opens the default database, exiting on failure.
func openStore() *storage.Store {
	path, err := storage.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving database path: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// newLogger builds the CLI logger. NAV_DEBUG enables debug output.
func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	if os.Getenv("NAV_DEBUG") != "" {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// runImport merges a file into the directory.
func runImport(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	store := openStore()
	defer store.Close()
	logger := newLogger()
	defer logger.Sync()

	reconciler := importer.NewReconciler(store, logger)

	var result *importer.Result
	if strings.HasSuffix(strings.ToLower(path), ".html") {
		result, err = reconciler.ImportHTML(strings.NewReader(string(data)))
	} else {
		result, err = reconciler.Import(data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v (added %d, merged %d before rollback)\n",
			err, result.Added, result.Merged)
		os.Exit(1)
	}

	fmt.Printf("Imported %d categories, added %d links, merged %d links\n",
		result.CategoriesImported, result.Added, result.Merged)
}

// runExport writes the directory to a file.
func runExport(outputPath string) {
	store := openStore()
	defer store.Close()

	snapshot, err := store.Reader().Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		os.Exit(1)
	}

	if outputPath == "--html" {
		outputPath, err = exporter.DefaultHTMLPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving export path: %v\n", err)
			os.Exit(1)
		}
	}

	var data []byte
	if strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		data = []byte(exporter.HTML(snapshot))
	} else {
		if outputPath == "" {
			outputPath = fmt.Sprintf("nav-backup-%s.json", time.Now().Format("2006-01-02"))
		}
		data, err = exporter.JSON(snapshot, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serializing export: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d links in %d categories to %s\n",
		len(snapshot.Links), len(snapshot.Categories), outputPath)
}

// runAdd appends a link to a category, named or default.
func runAdd(url, categoryName string) {
	store := openStore()
	defer store.Close()
	logger := newLogger()
	defer logger.Sync()

	var categoryID string
	if categoryName != "" {
		cat, err := store.Reader().CategoryByName(categoryName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error looking up category: %v\n", err)
			os.Exit(1)
		}
		if cat == nil {
			fmt.Fprintf(os.Stderr, "No category named %q\n", categoryName)
			os.Exit(1)
		}
		categoryID = cat.ID
	}

	engine := placement.NewEngine(store, logger)
	link, err := engine.Add(model.NewLinkParams{URL: url, Title: url, CategoryID: categoryID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding link: %v\n", err)
		os.Exit(1)
	}

	cat, err := store.Reader().CategoryByID(link.CategoryID)
	if err != nil || cat == nil {
		fmt.Printf("Added %s\n", link.URL)
		return
	}
	fmt.Printf("Added %s to %s (position %d)\n", link.URL, cat.Name, link.SortOrder)
}

// runOrphans lists or deletes categories whose parent no longer exists.
func runOrphans(cleanup bool) {
	store := openStore()
	defer store.Close()
	logger := newLogger()
	defer logger.Sync()

	manager := category.NewManager(store, logger)

	if cleanup {
		result, err := manager.CleanupOrphans()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d orphaned categories and %d links\n",
			len(result.DeletedCategoryIDs), result.DeletedLinkCount)
		return
	}

	orphans, err := manager.FindOrphans()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding orphans: %v\n", err)
		os.Exit(1)
	}
	if len(orphans) == 0 {
		fmt.Println("No orphaned categories")
		return
	}
	for _, o := range orphans {
		fmt.Printf("%s  %s (parent %s missing)\n", o.ID, o.Name, *o.ParentID)
	}
}

// runList prints the category tree with its links.
func runList() {
	store := openStore()
	defer store.Close()

	snapshot, err := store.Reader().Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		os.Exit(1)
	}

	for _, top := range snapshot.CategoriesUnder(nil) {
		fmt.Printf("%s %s\n", top.Icon, top.Name)
		printLinks(snapshot, top.ID, "  ")
		topID := top.ID
		for _, sub := range snapshot.CategoriesUnder(&topID) {
			fmt.Printf("  %s %s\n", sub.Icon, sub.Name)
			printLinks(snapshot, sub.ID, "    ")
		}
	}
}

func printLinks(snapshot *model.Snapshot, categoryID, indent string) {
	for _, link := range snapshot.LinksIn(categoryID) {
		fmt.Printf("%s- %s  %s\n", indent, link.Title, link.URL)
	}
}

// runSearch filters links and prints matches.
func runSearch(query string) {
	store := openStore()
	defer store.Close()

	snapshot, err := store.Reader().Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory: %v\n", err)
		os.Exit(1)
	}

	matches := search.Filter(snapshot.Links, query)
	if len(matches) == 0 {
		// Fall back to fuzzy title matching
		for _, r := range search.Fuzzy(snapshot.Links, query) {
			matches = append(matches, *r.Link)
		}
	}

	if len(matches) == 0 {
		fmt.Printf("No links found for '%s'\n", query)
		return
	}
	for _, link := range matches {
		label := ""
		if cat := snapshot.CategoryByID(link.CategoryID); cat != nil {
			label = cat.Name + "  "
		}
		fmt.Printf("%s%s  %s\n", label, link.Title, link.URL)
	}
}
