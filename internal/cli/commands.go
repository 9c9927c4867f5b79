package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
)

func newAddCmd(get func() *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <name...> --category <id|name>",
		Short: "Add an item (name can be multiple words)",
		Example: `  shop add "Whole milk" -c dairy
  shop add Bread -c 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := get().list(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			catID := model.NoCategory
			if category != "" {
				// unknown names fall through as NoCategory and are rejected by the store
				catID, _ = st.Catalog().Resolve(category)
			}
			it, err := st.AddItem(strings.Join(args, " "), catID)
			if err != nil {
				return storeErr(err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s: %s (%s)",
				ui.MsgAdded, it.ItemName, st.Catalog().Name(it.CategoryID)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name (see `shop categories`)")
	return cmd
}

func newListCmd(get func() *app) *cobra.Command {
	var group, showIDs bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			st, err := a.list(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			t := ui.Current()
			items := st.Items()

			header := fmt.Sprintf("%s  %s %d",
				t.Title.Render("Shopping list"),
				t.Accent.Render("Total"), len(items))
			lines := []string{header, ""}
			if group {
				lines = append(lines, groupLines(a, items, showIDs)...)
			} else {
				lines = append(lines, flatLines(a, items, showIDs)...)
			}
			lines = append(lines, "", t.Muted.Render("Tip: add with `shop add Milk -c dairy`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by category")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show item ids")
	return cmd
}

func newRemoveCmd(get func() *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"remove", "del"},
		Short:   "Remove an item by 1-based index or id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if _, err := a.list(cmd.ErrOrStderr()); err != nil {
				return err
			}
			it, err := resolveItem(a, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("%s Remove %q? %s", ui.MsgConfirmTitle, it.ItemName, ui.MsgConfirmText))
				if err != nil {
					return &exitErr{code: exitError, err: fmt.Errorf("read answer: %w", err)}
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Current().Muted.Render("cancelled"))
					return nil
				}
			}
			if err := a.store.DeleteItem(it.ID); err != nil {
				return storeErr(err)
			}
			ui.OK(cmd.OutOrStdout(), ui.MsgRemoved)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newSortCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort the list by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := get().list(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := st.SortByCategory(); err != nil {
				return storeErr(err)
			}
			ui.OK(cmd.OutOrStdout(), ui.MsgSorted)
			return nil
		},
	}
}

func newCategoriesCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "Show the known categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ui.Current()
			for _, c := range get().store.Catalog().Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Muted.Render(fmt.Sprintf("%3d", c.ID)), c.Name)
			}
			return nil
		},
	}
}

func newConfigCmd(get func() *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration in effect, with flags and environment
overrides applied. --save writes it to the --config path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if save {
				if err := a.cfg.Save(a.cfgPath); err != nil {
					return &exitErr{code: exitError, err: err}
				}
				ui.OK(cmd.OutOrStdout(), "Config written to "+a.cfgPath)
				return nil
			}
			data, err := a.cfg.Marshal()
			if err != nil {
				return &exitErr{code: exitError, err: err}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the configuration to the --config path")
	return cmd
}

func newUICmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			st, err := a.list(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := tui.Run(st, a.log); err != nil {
				return &exitErr{code: exitError, err: fmt.Errorf("tui: %w", err)}
			}
			return nil
		},
	}
}

// -------------- helpers ----------------

// resolveItem accepts a 1-based index as shown by `ls`, or an item id.
func resolveItem(a *app, arg string) (model.ListItem, error) {
	items := a.store.Items()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(items) {
			return model.ListItem{}, usageErr("index out of range: have %d, got %d (run `shop ls` to see valid indexes)", len(items), n)
		}
		return items[n-1], nil
	}
	if it, ok := a.store.Find(arg); ok {
		return it, nil
	}
	return model.ListItem{}, usageErr("no item with id %q", arg)
}

// confirm is the yes/no gate in front of a delete. Anything but y/yes
// (including EOF) is a no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func itemLine(a *app, idx int, it model.ListItem, showIDs bool) string {
	t := ui.Current()
	line := fmt.Sprintf("%s %s %s  %s",
		t.Muted.Render(fmt.Sprintf("%2d.", idx)),
		t.Accent.Render(t.Bullet),
		ui.Truncate(it.ItemName, 60),
		t.Muted.Render(a.store.Catalog().Name(it.CategoryID)))
	if showIDs {
		line += "  " + t.Muted.Render(it.ID)
	}
	return line
}

func flatLines(a *app, items []model.ListItem, showIDs bool) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render(ui.MsgEmptyList)}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, itemLine(a, i+1, it, showIDs))
	}
	return out
}

// groupLines renders one section per category in catalog order. Indexes
// stay the ones `rm` accepts.
func groupLines(a *app, items []model.ListItem, showIDs bool) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render(ui.MsgEmptyList)}
	}
	t := ui.Current()
	var lines []string
	for _, c := range a.store.Catalog().Categories() {
		var section []string
		for i, it := range items {
			if it.CategoryID == c.ID {
				section = append(section, itemLine(a, i+1, it, showIDs))
			}
		}
		if len(section) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(c.Name))
		lines = append(lines, section...)
	}

	// categories dropped from the config since the item was added
	var orphans []string
	for i, it := range items {
		if !a.store.Catalog().Valid(it.CategoryID) {
			orphans = append(orphans, itemLine(a, i+1, it, showIDs))
		}
	}
	if len(orphans) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render("Uncategorized"))
		lines = append(lines, orphans...)
	}
	return lines
}
