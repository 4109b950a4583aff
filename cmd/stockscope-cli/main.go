package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockscope/pkg/stockscope"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stockscope-cli [-server URL] <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version      Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  status       Check whether the API server is online\n")
		fmt.Fprintf(os.Stderr, "  results      List generated recommendation reports\n")
		fmt.Fprintf(os.Stderr, "  stocks       Print the current stock data set\n")
		fmt.Fprintf(os.Stderr, "  fetch        Fetch stock data and wait for completion\n")
		fmt.Fprintf(os.Stderr, "  recommend    Generate a recommendation report and print it\n")
		fmt.Fprintf(os.Stderr, "  view <ref>   Print a report by filename or URL slug\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	serverURL := flag.String("server", "http://localhost:5000", "stockscope API base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	client := stockscope.NewClient(*serverURL)
	ctx := context.Background()

	switch args[0] {
	case "version":
		fmt.Printf("stockscope-cli %s\n", version)

	case "status":
		if client.Online(ctx) {
			fmt.Println("online")
		} else {
			fmt.Println("offline")
			os.Exit(1)
		}

	case "results":
		files, err := client.Results(ctx)
		if err != nil {
			fatal(err)
		}
		for _, f := range files {
			fmt.Printf("%-50s %s %8d\n", f.Name, f.Date.Format("2006-01-02 15:04:05"), f.Size)
		}

	case "stocks":
		stocks, err := client.Stocks(ctx)
		if err != nil {
			fatal(err)
		}
		for _, s := range stocks {
			fmt.Printf("%-8s %-32s %8.2f%%  %s\n", s.Symbol, s.Name, s.YTD, s.Sector)
		}

	case "fetch":
		if _, err := client.StartDataFetch(ctx, 100, false); err != nil {
			fatal(err)
		}
		if _, err := awaitWithProgress(ctx, client); err != nil {
			fatal(err)
		}
		fmt.Println("done")

	case "recommend":
		if _, err := client.StartRecommendations(ctx); err != nil {
			fatal(err)
		}
		result, err := awaitWithProgress(ctx, client)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("\n--- %s ---\n\n%s\n", result.Filename, result.Entry.Content)

	case "view":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "view requires a filename or slug")
			os.Exit(1)
		}
		viewReport(ctx, client, args[1])

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

func awaitWithProgress(ctx context.Context, client *stockscope.Client) (*stockscope.TaskResult, error) {
	return client.AwaitTask(ctx, func(info stockscope.TaskInfo) {
		if info.Total > 0 {
			fmt.Printf("\r[%3d/%3d] %-60s", info.Progress, info.Total, info.Message)
		}
	})
}

// viewReport accepts either an exact filename or a URL slug and prints
// the report body.
func viewReport(ctx context.Context, client *stockscope.Client, ref string) {
	filename := ref

	entry, err := client.FetchContent(ctx, filename)
	if err != nil {
		// Not a direct filename; try slug resolution against the listing.
		resolved, rerr := client.ResolveSlug(ctx, ref)
		if rerr != nil || resolved == "" {
			fmt.Fprintf(os.Stderr, "report not found: %s\n", ref)
			os.Exit(1)
		}
		filename = resolved
		entry, err = client.FetchContent(ctx, filename)
		if err != nil {
			fatal(err)
		}
	}

	fmt.Printf("--- %s ---\n\n%s\n", filename, entry.Content)
	if stockscope.LooksLikeMarkdown(entry.Content) {
		fmt.Fprintln(os.Stderr, "(content looks like markdown)")
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
