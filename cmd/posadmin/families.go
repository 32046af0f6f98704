package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/module/catalog"
	"github.com/simp-lee/posadmin/internal/module/composition"
	"github.com/simp-lee/posadmin/internal/module/customer"
	"github.com/simp-lee/posadmin/internal/module/device"
	"github.com/simp-lee/posadmin/internal/module/order"
	"github.com/simp-lee/posadmin/internal/module/product"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

func familyCmds(c *cli) []*cobra.Command {
	return []*cobra.Command{
		customersCmd(c),
		customerGroupsCmd(c),
		productGroupsCmd(c),
		categoriesCmd(c),
		productsCmd(c),
		sizesCmd(c),
		treesCmd(c),
		accompanimentsCmd(c),
		combosCmd(c),
		devicesCmd(c),
		pointsOfSaleCmd(c),
		imagesCmd(c),
		ordersCmd(c),
	}
}

func customerRepo(c *cli, tc *transport.Client) *customer.Repository {
	return customer.NewRepository(customer.NewAPI(tc), c.logger)
}

func customersCmd(c *cli) *cobra.Command {
	render := plainCSV(customer.CustomersCSV)
	cmd := newResourceCmd(c, resourceDef[domain.Customer]{
		use:      "customers",
		short:    "Manage customers",
		repo:     func(tc *transport.Client) *resource.Repository[domain.Customer] { return customerRepo(c, tc).Customers },
		csv:      render,
		template: plainTemplate(customer.NewCustomer),
	})
	cmd.AddCommand(newQueryCmd(c, "by-group <groupCode>", "List the customers of a group", cobra.ExactArgs(1), render,
		func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Customer], error) {
			return customerRepo(c, tc).ByGroup(ctx, args[0]), nil
		}))
	return cmd
}

func customerGroupsCmd(c *cli) *cobra.Command {
	render := plainCSV(customer.GroupsCSV)
	cmd := newResourceCmd(c, resourceDef[domain.CustomerGroup]{
		use:      "customer-groups",
		aliases:  []string{"cgroups"},
		short:    "Manage customer groups",
		repo:     func(tc *transport.Client) *resource.Repository[domain.CustomerGroup] { return customerRepo(c, tc).Groups },
		csv:      render,
		template: plainTemplate(customer.NewGroup),
	})
	cmd.AddCommand(newQueryCmd(c, "enabled", "List the assignable groups", cobra.NoArgs, render,
		func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.CustomerGroup], error) {
			return customerRepo(c, tc).EnabledGroups(ctx), nil
		}))
	return cmd
}

func catalogRepo(c *cli, tc *transport.Client) *catalog.Repository {
	return catalog.NewRepository(catalog.NewAPI(tc), c.logger)
}

func productGroupsCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resourceDef[domain.ProductGroup]{
		use:      "product-groups",
		aliases:  []string{"pgroups"},
		short:    "Manage product groups",
		repo:     func(tc *transport.Client) *resource.Repository[domain.ProductGroup] { return catalogRepo(c, tc).Groups },
		csv:      plainCSV(catalog.GroupsCSV),
		template: plainTemplate(catalog.NewGroup),
	})
}

func categoriesCmd(c *cli) *cobra.Command {
	render := func(ctx context.Context, tc *transport.Client, items []domain.ProductCategory) (string, error) {
		return catalog.CategoriesCSV(items, catalogRepo(c, tc).Names(ctx))
	}
	var group string
	cmd := newResourceCmd(c, resourceDef[domain.ProductCategory]{
		use:   "categories",
		short: "Manage product categories",
		repo:  func(tc *transport.Client) *resource.Repository[domain.ProductCategory] { return catalogRepo(c, tc).Categories },
		csv:   render,
		template: func(context.Context, *transport.Client) domain.ProductCategory {
			return catalog.NewCategory(group)
		},
		templateFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&group, "group", "", "product group of the new category")
		},
	})
	cmd.AddCommand(newQueryCmd(c, "by-group <groupCode>", "List the categories of a product group", cobra.ExactArgs(1), render,
		func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.ProductCategory], error) {
			return catalogRepo(c, tc).CategoriesByGroup(ctx, args[0]), nil
		}))
	return cmd
}

func productRepo(c *cli, tc *transport.Client) *product.Repository {
	return product.NewRepository(product.NewAPI(tc), catalogRepo(c, tc), c.logger)
}

func productsCmd(c *cli) *cobra.Command {
	render := func(ctx context.Context, tc *transport.Client, items []domain.Product) (string, error) {
		return product.ViewsCSV(productRepo(c, tc).Views(ctx, items))
	}
	var group string
	cmd := newResourceCmd(c, resourceDef[domain.Product]{
		use:   "products",
		short: "Manage products",
		repo:  func(tc *transport.Client) *resource.Repository[domain.Product] { return productRepo(c, tc).Products },
		csv:   render,
		template: func(context.Context, *transport.Client) domain.Product {
			return product.NewProduct(group)
		},
		templateFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&group, "group", "", "product group of the new product")
		},
	})
	cmd.AddCommand(
		newQueryCmd(c, "by-group <groupCode>", "List the products of a group", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Product], error) {
				return productRepo(c, tc).ByGroup(ctx, args[0]), nil
			}),
		newQueryCmd(c, "by-category <categoryCode>", "List the products of a category", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Product], error) {
				return productRepo(c, tc).ByCategory(ctx, args[0]), nil
			}),
		newQueryCmd(c, "sellable", "List the products that can be rung up", cobra.NoArgs, render,
			func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.Product], error) {
				return productRepo(c, tc).Sellable(ctx), nil
			}),
		byPriceCmd(c, render),
		viewsCmd(c),
		variantsCmd(c),
	)
	return cmd
}

func byPriceCmd(c *cli, render csvFunc[domain.Product]) *cobra.Command {
	var lo, hi string
	cmd := newQueryCmd(c, "by-price", "List products priced within --min and --max", cobra.NoArgs, render,
		func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.Product], error) {
			minPrice, err := optionalDecimal("min", lo)
			if err != nil {
				return resource.Result[[]domain.Product]{}, err
			}
			maxPrice, err := optionalDecimal("max", hi)
			if err != nil {
				return resource.Result[[]domain.Product]{}, err
			}
			return productRepo(c, tc).ByPriceRange(ctx, minPrice, maxPrice), nil
		})
	cmd.Flags().StringVar(&lo, "min", "", "lowest price, inclusive")
	cmd.Flags().StringVar(&hi, "max", "", "highest price, inclusive")
	return cmd
}

func optionalDecimal(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

// viewsCmd lists every product with its group and category names resolved.
// Lookups go through the repositories, so a failing catalog degrades to codes.
func viewsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List products with group and category names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, err := c.client()
			if err != nil {
				return err
			}
			repo := productRepo(c, tc)
			all := repo.Products.All(cmd.Context())
			if all.Failed() {
				return all.Err
			}
			views := repo.Views(cmd.Context(), all.Value)
			if c.csv {
				out, err := product.ViewsCSV(views)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	}
}

func variantsCmd(c *cli) *cobra.Command {
	var item string
	cmd := newResourceCmd(c, resourceDef[domain.Variant]{
		use:   "variants",
		short: "Manage the variants of the product given with --item",
		repo: func(tc *transport.Client) *resource.Repository[domain.Variant] {
			return productRepo(c, tc).Variants(item)
		},
		csv: plainCSV(product.VariantsCSV),
		// A new variant starts at the product's price when it can be read.
		template: func(ctx context.Context, tc *transport.Client) domain.Variant {
			base := decimal.Zero
			if res := productRepo(c, tc).Products.Get(ctx, item); res.OK() {
				base = res.Value.Price
			}
			return product.NewVariant(item, base)
		},
	})
	cmd.PersistentFlags().StringVar(&item, "item", "", "item code of the product")
	_ = cmd.MarkPersistentFlagRequired("item")
	return cmd
}

func sizesCmd(c *cli) *cobra.Command {
	return newResourceCmd(c, resourceDef[domain.Size]{
		use:      "sizes",
		short:    "Manage sizes",
		repo:     func(tc *transport.Client) *resource.Repository[domain.Size] { return productRepo(c, tc).Sizes },
		template: plainTemplate(product.NewSize),
	})
}

func compositionRepo(c *cli, tc *transport.Client) *composition.Repository {
	return composition.NewRepository(composition.NewAPI(tc), c.logger)
}

func treesCmd(c *cli) *cobra.Command {
	render := plainCSV(composition.TreesCSV)
	var item string
	cmd := newResourceCmd(c, resourceDef[domain.ProductTree]{
		use:   "trees",
		short: "Manage ingredient trees",
		repo:  func(tc *transport.Client) *resource.Repository[domain.ProductTree] { return compositionRepo(c, tc).Trees },
		csv:   render,
		template: func(context.Context, *transport.Client) domain.ProductTree {
			return composition.NewTree(item)
		},
		templateFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&item, "item", "", "product the tree produces")
		},
	})
	cmd.AddCommand(newQueryCmd(c, "by-item <itemCode>", "List the trees of a product", cobra.ExactArgs(1), render,
		func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.ProductTree], error) {
			return compositionRepo(c, tc).TreesByItem(ctx, args[0]), nil
		}))
	cmd.AddCommand(treeEditCmds(c)...)
	return cmd
}

func accompanimentsCmd(c *cli) *cobra.Command {
	render := plainCSV(composition.AccompanimentsCSV)
	cmd := newResourceCmd(c, resourceDef[domain.Accompaniment]{
		use:   "accompaniments",
		short: "Manage accompaniments",
		repo: func(tc *transport.Client) *resource.Repository[domain.Accompaniment] {
			return compositionRepo(c, tc).Accompaniments
		},
		csv:      render,
		template: plainTemplate(composition.NewAccompaniment),
	})
	cmd.AddCommand(newQueryCmd(c, "enabled", "List the add-ons on offer", cobra.NoArgs, render,
		func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.Accompaniment], error) {
			return compositionRepo(c, tc).EnabledAccompaniments(ctx), nil
		}))
	return cmd
}

func combosCmd(c *cli) *cobra.Command {
	render := plainCSV(composition.CombosCSV)
	cmd := newResourceCmd(c, resourceDef[domain.Combo]{
		use:      "combos",
		short:    "Manage combos",
		repo:     func(tc *transport.Client) *resource.Repository[domain.Combo] { return compositionRepo(c, tc).Combos },
		csv:      render,
		template: plainTemplate(composition.NewCombo),
	})
	cmd.AddCommand(newQueryCmd(c, "enabled", "List the combos on offer", cobra.NoArgs, render,
		func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.Combo], error) {
			return compositionRepo(c, tc).EnabledCombos(ctx), nil
		}))
	cmd.AddCommand(comboEditCmds(c)...)
	return cmd
}

func deviceRepo(c *cli, tc *transport.Client) *device.Repository {
	return device.NewRepository(device.NewAPI(tc), c.logger)
}

func devicesCmd(c *cli) *cobra.Command {
	render := plainCSV(device.DevicesCSV)
	var pos string
	cmd := newResourceCmd(c, resourceDef[domain.Device]{
		use:   "devices",
		short: "Manage devices",
		repo:  func(tc *transport.Client) *resource.Repository[domain.Device] { return deviceRepo(c, tc).Devices },
		csv:   render,
		template: func(context.Context, *transport.Client) domain.Device {
			return device.NewDevice(pos)
		},
		templateFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&pos, "pos", "", "point of sale the device is attached to")
		},
	})
	cmd.AddCommand(
		newQueryCmd(c, "by-pos <posCode>", "List the devices of a point of sale", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Device], error) {
				return deviceRepo(c, tc).ByPOS(ctx, args[0]), nil
			}),
		newQueryCmd(c, "by-type <type>", "List the devices of one type", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Device], error) {
				return deviceRepo(c, tc).ByType(ctx, args[0]), nil
			}),
	)
	return cmd
}

func pointsOfSaleCmd(c *cli) *cobra.Command {
	render := plainCSV(device.PointsOfSaleCSV)
	cmd := newResourceCmd(c, resourceDef[domain.PointOfSale]{
		use:      "pos",
		aliases:  []string{"points-of-sale"},
		short:    "Manage points of sale",
		repo:     func(tc *transport.Client) *resource.Repository[domain.PointOfSale] { return deviceRepo(c, tc).PointsOfSale },
		csv:      render,
		template: plainTemplate(device.NewPointOfSale),
	})
	cmd.AddCommand(newQueryCmd(c, "enabled", "List the open points of sale", cobra.NoArgs, render,
		func(ctx context.Context, tc *transport.Client, _ []string) (resource.Result[[]domain.PointOfSale], error) {
			return deviceRepo(c, tc).EnabledPointsOfSale(ctx), nil
		}))
	return cmd
}

func orderRepo(c *cli, tc *transport.Client) *order.Repository {
	return order.NewRepository(order.NewAPI(tc), c.logger)
}

func ordersCmd(c *cli) *cobra.Command {
	render := plainCSV(order.OrdersCSV)
	var pos string
	cmd := newResourceCmd(c, resourceDef[domain.Order]{
		use:   "orders",
		short: "Manage orders",
		repo:  func(tc *transport.Client) *resource.Repository[domain.Order] { return orderRepo(c, tc).Orders },
		csv:   render,
		template: func(context.Context, *transport.Client) domain.Order {
			return order.NewOrder(pos)
		},
		templateFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&pos, "pos", "", "point of sale taking the order")
		},
		prepare: order.Recalculate,
	})
	cmd.AddCommand(
		newQueryCmd(c, "by-status <status>", "List the orders in one status", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Order], error) {
				return orderRepo(c, tc).ByStatus(ctx, domain.OrderStatus(args[0])), nil
			}),
		newQueryCmd(c, "by-pos <posCode>", "List the orders of a point of sale", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Order], error) {
				return orderRepo(c, tc).ByPOS(ctx, args[0]), nil
			}),
		newQueryCmd(c, "by-customer <customerCode>", "List the orders of a customer", cobra.ExactArgs(1), render,
			func(ctx context.Context, tc *transport.Client, args []string) (resource.Result[[]domain.Order], error) {
				return orderRepo(c, tc).ByCustomer(ctx, args[0]), nil
			}),
		setStatusCmd(c),
	)
	return cmd
}

// setStatusCmd moves an order and reports the status the backend stored.
func setStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <docEntry> <status>",
		Short: "Move an order to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docEntry, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("docEntry %q is not a number", args[0])
			}
			tc, err := c.client()
			if err != nil {
				return err
			}
			repo := orderRepo(c, tc)
			if res := repo.SetStatus(cmd.Context(), docEntry, domain.OrderStatus(args[1])); res.Failed() {
				return res.Err
			}
			o, err := found(repo.Get(cmd.Context(), docEntry), "orders", args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d is %s (%s)\n", o.DocEntry, o.Status, order.StatusSeverity(*o))
			return nil
		},
	}
}
