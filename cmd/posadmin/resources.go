package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/bulk"
	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

// csvFunc renders a list as CSV. It receives the client so that renderers
// can resolve display names.
type csvFunc[T any] func(ctx context.Context, tc *transport.Client, items []T) (string, error)

// resourceDef describes one REST resource exposed as a command group.
type resourceDef[T any] struct {
	use     string
	aliases []string
	short   string
	repo    func(tc *transport.Client) *resource.Repository[T]
	csv     csvFunc[T]

	// template returns the defaults of a new row. Without one there is no
	// new subcommand; templateFlags registers the flags it reads.
	template      func(ctx context.Context, tc *transport.Client) T
	templateFlags func(cmd *cobra.Command)

	// prepare adjusts a decoded document before create and update send it.
	prepare func(v *T)
}

// newResourceCmd builds the CRUD subcommands shared by every resource.
func newResourceCmd[T any](c *cli, def resourceDef[T]) *cobra.Command {
	cmd := &cobra.Command{Use: def.use, Aliases: def.aliases, Short: def.short}

	repo := func() (*resource.Repository[T], error) {
		tc, err := c.client()
		if err != nil {
			return nil, err
		}
		return def.repo(tc), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "List every row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := repo()
			if err != nil {
				return err
			}
			return printResult(cmd, c, def.use, r.All(cmd.Context()), def.csv)
		},
	})

	var (
		page, pageSize int
		sort           string
		filter         map[string]string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := repo()
			if err != nil {
				return err
			}
			req := domain.PageRequest{Page: page, PageSize: pageSize, Sort: sort, Filter: make(map[string]any, len(filter))}
			for k, v := range filter {
				req.Filter[k] = v
			}
			res := r.Page(cmd.Context(), req)
			if res.Failed() {
				return res.Err
			}
			if res.Outcome == resource.Empty {
				noRows(cmd, def.use)
			}
			if c.csv {
				return printList(cmd.Context(), c, cmd.OutOrStdout(), res.Value.Data, def.csv)
			}
			return printJSON(cmd.OutOrStdout(), res.Value)
		},
	}
	list.Flags().IntVar(&page, "page", domain.DefaultPage, "page number, from 1")
	list.Flags().IntVar(&pageSize, "page-size", domain.DefaultPageSize, "rows per page")
	list.Flags().StringVar(&sort, "sort", "", "sort as field:asc or field:desc")
	list.Flags().StringToStringVar(&filter, "filter", nil, "exact-match filters as key=value")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <code>",
		Short: "Show one row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo()
			if err != nil {
				return err
			}
			v, err := found(r.Get(cmd.Context(), args[0]), def.use, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	})

	if def.template != nil {
		newCmd := &cobra.Command{
			Use:   "new",
			Short: "Print the defaults of a new row as a JSON document",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tc, err := c.client()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), def.template(cmd.Context(), tc))
			},
		}
		if def.templateFlags != nil {
			def.templateFlags(newCmd)
		}
		cmd.AddCommand(newCmd)
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a row from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v T
			if err := readJSON(cmd.InOrStdin(), createFile, &v); err != nil {
				return err
			}
			if def.prepare != nil {
				def.prepare(&v)
			}
			r, err := repo()
			if err != nil {
				return err
			}
			created, err := found(r.Create(cmd.Context(), v), def.use, "created row")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "-", "JSON document, - for stdin")
	cmd.AddCommand(create)

	var updateFile string
	update := &cobra.Command{
		Use:   "update <code>",
		Short: "Replace a row with a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v T
			if err := readJSON(cmd.InOrStdin(), updateFile, &v); err != nil {
				return err
			}
			if def.prepare != nil {
				def.prepare(&v)
			}
			r, err := repo()
			if err != nil {
				return err
			}
			if res := r.Update(cmd.Context(), args[0], v); res.Failed() {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated", args[0])
			return nil
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "-", "JSON document, - for stdin")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <code>",
		Short: "Delete one row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo()
			if err != nil {
				return err
			}
			if res := r.Delete(cmd.Context(), args[0]); res.Failed() {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "bulk-delete <code>...",
		Short: "Delete several rows concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo()
			if err != nil {
				return err
			}
			var failed error
			bulk.Delete(cmd.Context(), r, args, c.cfg.API.BulkConcurrency, func(sum *bulk.Summary[string]) {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, sum.String())
				for _, code := range sum.FailedKeys() {
					fmt.Fprintf(out, "  %s: %v\n", code, sum.Errors[code])
				}
				if !sum.OK() {
					failed = fmt.Errorf("%d of %d deletions failed", sum.Failed, sum.Total)
				}
			})
			return failed
		},
	})

	return cmd
}

// newQueryCmd builds a narrow list query subcommand.
func newQueryCmd[T any](c *cli, use, short string, args cobra.PositionalArgs, render csvFunc[T], query func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]T], error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := c.client()
			if err != nil {
				return err
			}
			res, err := query(cmd.Context(), tc, args)
			if err != nil {
				return err
			}
			return printResult(cmd, c, cmd.Parent().Name(), res, render)
		},
	}
}

// printResult prints a list result. A failed call returns its error; an
// empty one prints an empty list and says so on stderr.
func printResult[T any](cmd *cobra.Command, c *cli, name string, res resource.Result[[]T], render csvFunc[T]) error {
	if res.Failed() {
		return res.Err
	}
	if res.Outcome == resource.Empty {
		noRows(cmd, name)
	}
	return printList(cmd.Context(), c, cmd.OutOrStdout(), res.Value, render)
}

func noRows(cmd *cobra.Command, name string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "no %s found\n", name)
}

// found unwraps a single-row result. A missing row becomes a not-found error
// naming what was asked for.
func found[T any](res resource.Result[*T], name, code string) (*T, error) {
	switch res.Outcome {
	case resource.Failed:
		return nil, res.Err
	case resource.Empty:
		return nil, domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("%s %s not found", name, code), nil)
	}
	return res.Value, nil
}

// plainCSV adapts a renderer that needs no client.
func plainCSV[T any](render func([]T) (string, error)) csvFunc[T] {
	return func(_ context.Context, _ *transport.Client, items []T) (string, error) {
		return render(items)
	}
}

// plainTemplate adapts a factory that needs no client.
func plainTemplate[T any](factory func() T) func(context.Context, *transport.Client) T {
	return func(context.Context, *transport.Client) T { return factory() }
}
