package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/module/composition"
)

// editCombo loads a combo, applies edit and stores the result once it
// validates. The stored combo is printed.
func editCombo(cmd *cobra.Command, c *cli, code string, edit func(b *composition.ComboBuilder) error) error {
	tc, err := c.client()
	if err != nil {
		return err
	}
	repo := compositionRepo(c, tc).Combos
	combo, err := found(repo.Get(cmd.Context(), code), "combos", code)
	if err != nil {
		return err
	}
	b := composition.NewComboBuilder(*combo)
	if err := edit(b); err != nil {
		return err
	}
	edited, err := b.Build()
	if err != nil {
		return err
	}
	if res := repo.Update(cmd.Context(), code, edited); res.Failed() {
		return res.Err
	}
	return printJSON(cmd.OutOrStdout(), edited)
}

// optionIndex finds a combo option by name.
func optionIndex(b *composition.ComboBuilder, name string) (int, error) {
	i := slices.IndexFunc(b.Combo().Options, func(o domain.ComboOption) bool { return o.OptionName == name })
	if i < 0 {
		return -1, domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("option %q not found", name), nil)
	}
	return i, nil
}

// parseItem reads CODE or CODE=EXTRA.
func parseItem(s string) (string, decimal.Decimal, error) {
	code, extra, ok := strings.Cut(s, "=")
	if !ok {
		return code, decimal.Zero, nil
	}
	d, err := decimal.NewFromString(extra)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("extra price of %q: %w", code, err)
	}
	return code, d, nil
}

func comboEditCmds(c *cli) []*cobra.Command {
	var (
		minSelect, maxSelect int
		items                []string
		defaultItem          string
	)
	addOption := &cobra.Command{
		Use:   "add-option <combo> <option>",
		Short: "Add a choice slot filled from --item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editCombo(cmd, c, args[0], func(b *composition.ComboBuilder) error {
				if _, err := optionIndex(b, args[1]); err == nil {
					return domain.NewAppError(domain.CodeConflict, fmt.Sprintf("option %q already exists", args[1]), nil)
				}
				opt := b.AddOption(args[1], minSelect, maxSelect)
				for _, s := range items {
					code, extra, err := parseItem(s)
					if err != nil {
						return err
					}
					if err := b.AddItem(opt, code, extra); err != nil {
						return err
					}
				}
				if defaultItem != "" {
					return b.SetDefault(opt, defaultItem)
				}
				return nil
			})
		},
	}
	addOption.Flags().IntVar(&minSelect, "min", 1, "fewest items a customer picks")
	addOption.Flags().IntVar(&maxSelect, "max", 1, "most items a customer picks")
	addOption.Flags().StringSliceVar(&items, "item", nil, "item as CODE or CODE=EXTRA, repeatable")
	addOption.Flags().StringVar(&defaultItem, "default", "", "item picked unless the customer chooses")

	removeOption := &cobra.Command{
		Use:   "remove-option <combo> <option>",
		Short: "Drop a choice slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editCombo(cmd, c, args[0], func(b *composition.ComboBuilder) error {
				i, err := optionIndex(b, args[1])
				if err != nil {
					return err
				}
				return b.RemoveOption(i)
			})
		},
	}

	moveOption := &cobra.Command{
		Use:   "move-option <combo> <option> <position>",
		Short: "Move a choice slot to a position, counted from 1",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("position %q is not a number", args[2])
			}
			return editCombo(cmd, c, args[0], func(b *composition.ComboBuilder) error {
				i, err := optionIndex(b, args[1])
				if err != nil {
					return err
				}
				return b.MoveOption(i, pos-1)
			})
		},
	}

	var extra string
	addItem := &cobra.Command{
		Use:   "add-item <combo> <option> <itemCode>",
		Short: "Offer another product in a choice slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(extra)
			if err != nil {
				return fmt.Errorf("--extra: %w", err)
			}
			return editCombo(cmd, c, args[0], func(b *composition.ComboBuilder) error {
				i, err := optionIndex(b, args[1])
				if err != nil {
					return err
				}
				return b.AddItem(i, args[2], price)
			})
		},
	}
	addItem.Flags().StringVar(&extra, "extra", "0", "surcharge for picking the item")

	itemEdit := func(use, short string, apply func(b *composition.ComboBuilder, opt int, item string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editCombo(cmd, c, args[0], func(b *composition.ComboBuilder) error {
					i, err := optionIndex(b, args[1])
					if err != nil {
						return err
					}
					return apply(b, i, args[2])
				})
			},
		}
	}

	return []*cobra.Command{
		addOption,
		removeOption,
		moveOption,
		addItem,
		itemEdit("remove-item <combo> <option> <itemCode>", "Stop offering a product in a choice slot",
			(*composition.ComboBuilder).RemoveItem),
		itemEdit("set-default <combo> <option> <itemCode>", "Make a product the default pick of a choice slot",
			(*composition.ComboBuilder).SetDefault),
	}
}

// editTree loads an ingredient tree, applies edit and stores the result once
// it validates. The stored tree is printed.
func editTree(cmd *cobra.Command, c *cli, code string, edit func(e *composition.TreeEditor) error) error {
	tc, err := c.client()
	if err != nil {
		return err
	}
	repo := compositionRepo(c, tc).Trees
	tree, err := found(repo.Get(cmd.Context(), code), "trees", code)
	if err != nil {
		return err
	}
	e := composition.NewTreeEditor(*tree)
	if err := edit(e); err != nil {
		return err
	}
	edited, err := e.Build()
	if err != nil {
		return err
	}
	if res := repo.Update(cmd.Context(), code, edited); res.Failed() {
		return res.Err
	}
	return printJSON(cmd.OutOrStdout(), edited)
}

func parseQuantity(s string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity %q: %w", s, err)
	}
	return qty, nil
}

func treeEditCmds(c *cli) []*cobra.Command {
	var uom string
	add := &cobra.Command{
		Use:   "add-component <tree> <itemCode> <quantity>",
		Short: "Add an ingredient, or more of one already listed",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			return editTree(cmd, c, args[0], func(e *composition.TreeEditor) error {
				return e.Add(args[1], qty, uom)
			})
		},
	}
	add.Flags().StringVar(&uom, "uom", "", "unit of measure of the quantity")

	return []*cobra.Command{
		add,
		{
			Use:   "set-quantity <tree> <itemCode> <quantity>",
			Short: "Replace the quantity of an ingredient",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := parseQuantity(args[2])
				if err != nil {
					return err
				}
				return editTree(cmd, c, args[0], func(e *composition.TreeEditor) error {
					return e.SetQuantity(args[1], qty)
				})
			},
		},
		{
			Use:   "remove-component <tree> <itemCode>",
			Short: "Drop an ingredient",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editTree(cmd, c, args[0], func(e *composition.TreeEditor) error {
					return e.Remove(args[1])
				})
			},
		},
	}
}
