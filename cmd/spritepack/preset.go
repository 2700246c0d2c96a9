package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SpritePack/internal/model"
	"github.com/piwi3910/SpritePack/internal/project"
)

func newPresetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved pack settings",
	}

	cmd.AddCommand(newPresetListCommand(a))
	cmd.AddCommand(newPresetSaveCommand(a))
	cmd.AddCommand(newPresetDeleteCommand(a))
	cmd.AddCommand(newPresetExportCommand(a))
	cmd.AddCommand(newPresetImportCommand(a))

	return cmd
}

func (a *app) loadPresetStore() (model.PresetStore, string, error) {
	path, err := a.presetStorePath()
	if err != nil {
		return model.PresetStore{}, "", err
	}
	store, err := project.LoadPresets(path)
	if err != nil {
		return model.PresetStore{}, "", fmt.Errorf("failed to load presets: %w", err)
	}
	return store, path, nil
}

func newPresetListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, path, err := a.loadPresetStore()
			if err != nil {
				return err
			}
			if len(store.Presets) == 0 {
				fmt.Fprintf(a.out, "no presets in %s\n", path)
				return nil
			}

			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Max Side", "Flip", "Discard", "Heuristics", "Description"})
			for _, p := range store.Presets {
				s := p.Settings
				tbl.AppendRow(table.Row{p.Name, s.MaxSide, s.AllowFlip, s.DiscardStep, joinHeuristics(s.Heuristics), p.Description})
			}
			fmt.Fprintln(a.out, tbl.Render())
			return nil
		},
	}
}

func newPresetSaveCommand(a *app) *cobra.Command {
	flags := &packFlags{}
	var description string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current settings as a preset, replacing one with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(a, cmd)
			if err != nil {
				return err
			}
			store, path, err := a.loadPresetStore()
			if err != nil {
				return err
			}

			preset := model.NewPreset(args[0], description, settings)
			if old := store.FindByName(args[0]); old != nil {
				preset.ID = old.ID
				preset.CreatedAt = old.CreatedAt
				store.Remove(old.ID)
			}
			store.Add(preset)

			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "saved preset %q to %s\n", preset.Name, path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&description, "description", "", "free-form preset description")
	return cmd
}

func newPresetDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, path, err := a.loadPresetStore()
			if err != nil {
				return err
			}
			p := store.FindByName(args[0])
			if p == nil {
				return fmt.Errorf("preset %q not found in %s", args[0], path)
			}
			store.Remove(p.ID)
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted preset %q\n", args[0])
			return nil
		},
	}
}

func newPresetExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Write all presets to a versioned backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, _, err := a.loadPresetStore()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], store); err != nil {
				return err
			}
			reportWritten(a, "backup", args[0])
			return nil
		},
	}
}

func newPresetImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Merge presets from a backup file, replacing those with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			store, path, err := a.loadPresetStore()
			if err != nil {
				return err
			}

			for _, p := range backup.Presets.Presets {
				if old := store.FindByName(p.Name); old != nil {
					store.Remove(old.ID)
				}
				store.Add(p)
			}
			if err := project.SavePresets(path, store); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "imported %d presets from backup %s\n", len(backup.Presets.Presets), backup.Version)
			return nil
		},
	}
}

func joinHeuristics(hs []model.Heuristic) string {
	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}
