package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/catalog"
	"github.com/jstiltner/document-understanding/internal/model"
	"github.com/jstiltner/document-understanding/internal/store"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage the field catalog",
}

var fieldsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the default field catalog (no-op when non-empty)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		// initEnv already bootstraps; report the current state.
		fields, err := e.Catalog.ActiveFields(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("field catalog ready", zap.Int("active_fields", len(fields)))
		return nil
	},
}

var fieldsListAll bool

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List field definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var fields []model.FieldDefinition
		if fieldsListAll {
			st := e.Store
			fields, err = st.ListFieldDefinitions(ctx, false)
		} else {
			fields, err = e.Catalog.ActiveFields(ctx)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	},
}

var fieldsImportPath string

var fieldsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import field definitions from a JSON fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		fields, err := catalog.LoadFieldsFromFile(fieldsImportPath)
		if err != nil {
			return err
		}

		created := 0
		for _, def := range fields {
			if err := e.Catalog.Create(ctx, def); err != nil {
				zap.L().Warn("skipping field", zap.String("name", def.Name), zap.Error(err))
				continue
			}
			created++
		}
		zap.L().Info("fields imported", zap.Int("created", created), zap.Int("skipped", len(fields)-created))
		return nil
	},
}

var fieldsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <name>",
	Short: "Soft-delete a field definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Catalog.Deactivate(ctx, args[0]); err != nil {
			return err
		}
		zap.L().Info("field deactivated", zap.String("name", args[0]))
		return nil
	},
}

var (
	fieldsUpdateDisplay  string
	fieldsUpdateDesc     string
	fieldsUpdateRequired bool
	fieldsUpdatePattern  string
)

var fieldsUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a field definition (name is immutable)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var upd store.FieldUpdate
		if cmd.Flags().Changed("display-name") {
			upd.DisplayName = &fieldsUpdateDisplay
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &fieldsUpdateDesc
		}
		if cmd.Flags().Changed("required") {
			upd.Required = &fieldsUpdateRequired
		}
		if cmd.Flags().Changed("pattern") {
			upd.ValidationPattern = &fieldsUpdatePattern
		}

		if err := e.Catalog.Update(ctx, args[0], upd); err != nil {
			return err
		}
		zap.L().Info("field updated", zap.String("name", args[0]))
		return nil
	},
}

func init() {
	fieldsListCmd.Flags().BoolVar(&fieldsListAll, "all", false, "include deactivated fields")
	fieldsImportCmd.Flags().StringVar(&fieldsImportPath, "file", "fields.json", "path to field definitions JSON")
	fieldsUpdateCmd.Flags().StringVar(&fieldsUpdateDisplay, "display-name", "", "new display name")
	fieldsUpdateCmd.Flags().StringVar(&fieldsUpdateDesc, "description", "", "new description")
	fieldsUpdateCmd.Flags().BoolVar(&fieldsUpdateRequired, "required", false, "whether the field is required")
	fieldsUpdateCmd.Flags().StringVar(&fieldsUpdatePattern, "pattern", "", "new validation regex")

	fieldsCmd.AddCommand(fieldsInitCmd, fieldsListCmd, fieldsImportCmd, fieldsUpdateCmd, fieldsDeactivateCmd)
	rootCmd.AddCommand(fieldsCmd)
}
