package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sgdash/sgdash/internal/source"
	"github.com/sgdash/sgdash/internal/ui"
	"github.com/sgdash/sgdash/internal/view"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive exposure dashboard",
	Long: `Loads an exposure snapshot (local file or HTTP endpoint), renders the
risk summary, donut chart and rule table, and accepts commands to search,
sort, page and rescan. Use --once to render a single frame and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		loader := &source.Loader{
			Path:    cfg.SnapshotPath,
			URL:     cfg.SourceURL,
			ScanURL: cfg.ScanURL,
		}
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			loader.Path = file
			loader.URL = ""
		}
		if url, _ := cmd.Flags().GetString("url"); url != "" {
			loader.URL = url
		}

		store := view.NewStore(cfg.ItemsPerPage)
		refresh(store, loader)
		ui.RenderDashboard(store.Snapshot())

		if once, _ := cmd.Flags().GetBool("once"); once {
			return nil
		}
		return commandLoop(store, loader)
	},
}

// refresh fetches one snapshot and installs it, or drives the store into its
// explicit error state. The generation token keeps a slow fetch from
// clobbering a newer one.
func refresh(store *view.Store, loader *source.Loader) {
	gen := store.BeginLoad()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := loader.Fetch(ctx)
	if err != nil {
		store.FailLoad(gen, err)
		return
	}
	store.CompleteLoad(gen, raw)
}

func commandLoop(store *view.Store, loader *source.Loader) error {
	pterm.FgGray.Println(`Commands: search <text> | clear | sort <name|id|protocol|port|source|risk> | page <n> | next | prev | rescan | quit`)

	for {
		input, err := pterm.DefaultInteractiveTextInput.Show("sgdash")
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		fields := strings.Fields(input)
		if len(fields) == 0 {
			ui.RenderDashboard(store.Snapshot())
			continue
		}
		cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

		switch strings.ToLower(cmd) {
		case "q", "quit", "exit":
			return nil
		case "search", "/":
			store.SetSearchQuery(rest)
		case "clear":
			store.SetSearchQuery("")
		case "sort":
			col, ok := parseSortColumn(rest)
			if !ok {
				pterm.Warning.Printf("Unknown column %q\n", rest)
				continue
			}
			store.SetSort(col)
		case "page":
			n, err := strconv.Atoi(rest)
			if err != nil {
				pterm.Warning.Printf("Not a page number: %q\n", rest)
				continue
			}
			store.SetPage(n)
		case "next", "n":
			store.NextPage()
		case "prev", "p":
			store.PrevPage()
		case "rescan":
			spinner := ui.StartSpinner("Triggering rescan...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if err := loader.Rescan(ctx); err != nil {
				cancel()
				spinner.Fail("Rescan failed")
				pterm.Warning.Println(err.Error())
				continue
			}
			cancel()
			spinner.Success("Rescan complete")
			refresh(store, loader)
		default:
			pterm.Warning.Printf("Unknown command %q\n", cmd)
			continue
		}

		ui.RenderDashboard(store.Snapshot())
	}
}

func parseSortColumn(s string) (view.SortColumn, bool) {
	switch strings.ToLower(s) {
	case "name":
		return view.SortGroupName, true
	case "id":
		return view.SortGroupID, true
	case "protocol":
		return view.SortProtocol, true
	case "port":
		return view.SortPortRange, true
	case "source", "open":
		return view.SortOpenTo, true
	case "risk":
		return view.SortRisk, true
	}
	return "", false
}

func init() {
	viewCmd.Flags().String("file", "", "Snapshot JSON file to load")
	viewCmd.Flags().String("url", "", "Snapshot HTTP endpoint to load")
	viewCmd.Flags().Bool("once", false, "Render one frame and exit")
	rootCmd.AddCommand(viewCmd)
}
