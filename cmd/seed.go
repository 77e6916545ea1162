package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ecis/inspection-gin/internal/container"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/ecis/inspection-gin/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedTemplatesCmd 导入检查项模板
var seedTemplatesCmd = &cobra.Command{
	Use:   "seed-templates",
	Short: "Import checklist templates",
	Long: `Import checklist item templates per equipment type from a YAML file.
When the file does not exist the built-in templates are written for every
equipment type that has none yet. Use --replace to overwrite the templates
of the types present in the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		file, _ := cmd.Flags().GetString("file")
		replace, _ := cmd.Flags().GetBool("replace")
		logger := logging.GetLogger()

		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		ctx := context.Background()
		templates, err := service.LoadTemplateFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			logger.WithField("file", file).Info("Template file not found, seeding built-in templates")
			count, err := ctr.Templates().SeedDefaults(ctx)
			if err != nil {
				return fmt.Errorf("failed to seed templates: %w", err)
			}
			logger.WithField("count", count).Info("Built-in templates seeded")
			return nil
		}
		if err != nil {
			return err
		}

		count, err := ctr.Templates().Import(ctx, templates, replace)
		if err != nil {
			return fmt.Errorf("failed to import templates: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"file":    file,
			"count":   count,
			"replace": replace,
		}).Info("Checklist templates imported")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedTemplatesCmd)

	seedTemplatesCmd.Flags().String("file", "config/checklist_templates.yaml", "YAML template file")
	seedTemplatesCmd.Flags().Bool("replace", false, "Replace existing templates of the imported equipment types")
}
