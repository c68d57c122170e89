package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/parser"
	"github.com/vango-dev/routekit/pkg/routes"
)

func listCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every route in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := c.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			all := table.All()

			if asJSON {
				type entry struct {
					Pattern string      `json:"pattern"`
					Name    string      `json:"name,omitempty"`
					Meta    routes.Meta `json:"meta,omitempty"`
				}
				entries := make([]entry, len(all))
				for i, info := range all {
					entries[i] = entry{Pattern: info.Pattern, Name: info.Name, Meta: info.Meta}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tNAME\tMETA")
			for _, info := range all {
				meta := ""
				if len(info.Meta) > 0 {
					data, err := json.Marshal(info.Meta)
					if err != nil {
						return errors.New("R050").Wrap(err)
					}
					meta = string(data)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Pattern, info.Name, meta)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print routes as JSON")

	return cmd
}

func urlCmd(c *cli) *cobra.Command {
	var params, query []string

	cmd := &cobra.Command{
		Use:   "url NAME",
		Short: "Render the URL of a named route",
		Long: `Render the URL of a named route. Parameters and query values run
through the validators declared in the routes file.

Examples:
  routekit url user -p id=42
  routekit url search -q q=routing -q page=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePairs("param", params)
			if err != nil {
				return err
			}
			q, err := parsePairs("query", query)
			if err != nil {
				return err
			}

			_, table, err := c.load()
			if err != nil {
				return err
			}

			var link routes.Link
			if len(query) > 0 {
				link, err = table.Lookup(args[0], p, q)
			} else {
				link, err = table.Lookup(args[0], p)
			}
			if err != nil {
				return errors.FromError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), link.URL())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Path parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query value as key=value (repeatable, order kept)")

	return cmd
}

func patternCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pattern NAME",
		Short: "Print the pattern of a named route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := c.load()
			if err != nil {
				return err
			}

			pattern, ok := table.Pattern(args[0])
			if !ok {
				return errors.FromError(&routes.RouteNotFoundError{Name: args[0]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), pattern)
			return nil
		},
	}
}

func walkCmd(c *cli) *cobra.Command {
	var query []string

	cmd := &cobra.Command{
		Use:   "walk SEGMENT...",
		Short: "Navigate the route trie segment by segment and render the URL",
		Long: `Navigate the route trie. Each argument names a static segment when
one exists at that position and is otherwise the value of the parameter
that follows.

Examples:
  routekit walk users 42
  routekit walk search -q q=routing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parsePairs("query", query)
			if err != nil {
				return err
			}

			_, table, err := c.load()
			if err != nil {
				return err
			}

			nav := table.Index()
			if len(args) > 0 {
				steps := make([]any, len(args))
				for i, a := range args {
					steps[i] = a
				}
				nav, err = table.Routes().Walk(steps...)
				if err != nil {
					return errors.FromError(err)
				}
			}

			if len(query) > 0 {
				nav, err = nav.WithQuery(q)
				if err != nil {
					return errors.FromError(err)
				}
			}

			u, err := nav.URL()
			if err != nil {
				return errors.FromError(err).
					WithSuggestion(suggestNext(nav))
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query value as key=value (repeatable, order kept)")

	return cmd
}

// suggestNext lists what can follow a position that is not a route.
func suggestNext(nav routes.Nav) string {
	var next []string
	next = append(next, nav.Children()...)
	if nav.HasParam() {
		next = append(next, "<value>")
	}
	if len(next) == 0 {
		return ""
	}
	return "Continue with one of: " + strings.Join(next, ", ")
}

func checkCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the routes file and build the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := c.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "%s: %d routes, %d named", cfg.Path(), len(table.All()), len(table.Names()))
			for _, name := range table.Names() {
				pattern, _ := table.Pattern(name)
				info(out, "%-16s %s", name, pattern)
			}
			if cfg.Conflicts == string(routes.ConflictOverride) {
				warn(out, "conflicts: override, later declarations replace earlier ones")
			}
			return nil
		},
	}
}

// parsePairs parses repeated key=value flags into a record, keeping order.
func parsePairs(flag string, pairs []string) (parser.Record, error) {
	fields := make([]parser.Field, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return parser.Record{}, errors.New("R050").
				WithDetail(fmt.Sprintf("--%s %q is not key=value", flag, pair))
		}
		fields = append(fields, parser.Field{Key: key, Value: value})
	}
	return parser.NewRecord(fields...), nil
}
