package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/casework/casework/internal/config"
	"github.com/casework/casework/internal/domain/resource"
	"github.com/casework/casework/internal/platform/directory"
	"github.com/casework/casework/pkg/pagination"
)

// filterFlags maps CLI flags onto the query parameters understood by
// resource.ParseFilters, so the CLI and HTTP API share one parser.
var filterFlags = []struct {
	flag  string
	param string
	usage string
}{
	{"q", "q", "Free-text search over name, description, tags and type"},
	{"type", "type", "Resource types (comma-separated)"},
	{"bed-status", "bed_status", "Bed statuses (comma-separated)"},
	{"gender", "gender", "Gender restrictions to allow (comma-separated)"},
	{"walk-ins", "walk_ins", "Require walk-in acceptance (true|false)"},
	{"co-occurring", "co_occurring", "Require co-occurring acceptance (true|false)"},
	{"sobriety", "sobriety", "Require sobriety requirement (true|false)"},
	{"open-now", "open_now", "Only resources currently open (true|false)"},
	{"max-distance", "max_distance", "Maximum distance in miles"},
}

func addFilterFlags(cmd *cobra.Command) {
	for _, f := range filterFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().String("sort", "distance", "Sort key: distance, name, updated or beds")
	cmd.Flags().String("source", "", "Directory source (defaults to DIRECTORY_SOURCE, then the embedded seed)")
}

func filtersFromFlags(cmd *cobra.Command) (resource.Filters, resource.SortKey, error) {
	values := url.Values{}
	for _, f := range filterFlags {
		if v, _ := cmd.Flags().GetString(f.flag); v != "" {
			values.Set(f.param, v)
		}
	}
	filters, err := resource.ParseFilters(values)
	if err != nil {
		return resource.Filters{}, "", err
	}
	sortBy, _ := cmd.Flags().GetString("sort")
	key, err := resource.ParseSortKey(sortBy)
	if err != nil {
		return resource.Filters{}, "", err
	}
	return filters, key, nil
}

// directoryService loads the directory named by --source (or config) and
// wraps it in a resource service with no favorites or events.
func directoryService(cmd *cobra.Command) (*resource.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.DirectorySource
	}
	loader := &directory.Loader{Region: cfg.S3Region, Endpoint: cfg.S3Endpoint}
	dir, err := loader.Load(cmd.Context(), source)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	repo, err := resource.NewMemoryRepo(dir.Resources)
	if err != nil {
		return nil, err
	}
	return resource.NewService(repo, nil, nil, zerolog.Nop()), nil
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter and sort the resource directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, key, err := filtersFromFlags(cmd)
			if err != nil {
				return err
			}
			svc, err := directoryService(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			res, err := svc.Search(cmd.Context(), filters, key, pagination.Params{Limit: limit})
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResources(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("limit", 0, "Maximum rows to print (0 for all)")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered directory as an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			filters, key, err := filtersFromFlags(cmd)
			if err != nil {
				return err
			}
			svc, err := directoryService(cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			n, err := svc.Export(cmd.Context(), filters, key, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d resource(s) to %s\n", n, out)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().String("out", "", "Output .xlsx path")
	return cmd
}

type queryOutput struct {
	Total       int                 `json:"total"`
	Explanation string              `json:"explanation,omitempty"`
	Data        []resource.Resource `json:"data"`
}

func writeJSON(w io.Writer, res *resource.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(queryOutput{Total: res.Total, Explanation: res.Explanation, Data: res.Items})
}

func printResources(w io.Writer, res *resource.SearchResult) {
	if res.Explanation != "" {
		fmt.Fprintln(w, res.Explanation)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%-6s %-40s %-15s %-10s %-6s %-9s\n", "ID", "NAME", "TYPE", "BEDS", "MILES", "STATUS")
	for _, r := range res.Items {
		beds := "-"
		if r.BedStatus != nil {
			beds = string(*r.BedStatus)
			if r.BedsAvailable != nil {
				beds += " " + strconv.Itoa(*r.BedsAvailable)
			}
		}
		miles := "-"
		if r.Distance != nil {
			miles = strconv.FormatFloat(*r.Distance, 'f', 1, 64)
		}
		fmt.Fprintf(w, "%-6s %-40s %-15s %-10s %-6s %-9s\n", r.ID, truncate(r.Name, 40), r.Type, beds, miles, r.Status)
	}
	fmt.Fprintf(w, "\n%d of %d resource(s)\n", len(res.Items), res.Total)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
