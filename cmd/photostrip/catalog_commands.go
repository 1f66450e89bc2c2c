package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photostrip/internal/compose"
	"photostrip/internal/filter"
	"photostrip/internal/layout"
	"photostrip/internal/overlay"
)

func newFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "filters",
		Short:       "List color filters and frame styles",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			filterRows := make([][]string, 0, len(filter.All()))
			for _, id := range filter.All() {
				filterRows = append(filterRows, []string{string(id), filter.DisplayName(id)})
			}
			fmt.Fprintln(out, renderTable([]string{"Filter", "Name"}, filterRows, nil))

			styleRows := make([][]string, 0, len(compose.Styles()))
			for _, style := range compose.Styles() {
				styleRows = append(styleRows, []string{string(style), compose.StyleName(style)})
			}
			fmt.Fprintln(out, renderTable([]string{"Style", "Name"}, styleRows, nil))
			return nil
		},
	}
}

func newLayoutsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the configured layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry, err := layout.FromConfig(cfg)
			if err != nil {
				return err
			}
			defaultID := registry.Default().ID
			rows := make([][]string, 0, len(registry.IDs()))
			for _, l := range registry.All() {
				marker := ""
				if l.ID == defaultID {
					marker = "*"
				}
				rows = append(rows, []string{
					l.ID + marker,
					l.Name,
					strconv.Itoa(l.PhotoCount),
					fmt.Sprintf("%dx%d", l.Columns, l.Rows()),
					yesNo(l.Wide),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Photos", "Grid", "Wide"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newGlyphsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "glyphs",
		Aliases:     []string{"stickers"},
		Short:       "List overlay glyph categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(overlay.Categories()))
			for _, category := range overlay.Categories() {
				ids := make([]string, 0, len(category.Glyphs))
				for _, g := range category.Glyphs {
					ids = append(ids, g.ID)
				}
				rows = append(rows, []string{category.ID, category.Name, string(category.Mode), strings.Join(ids, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Name", "Mode", "Glyphs"}, rows, nil))
			return nil
		},
	}
}
