package cmd

import (
	"os"

	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecis-inspection",
	Short: "Equipment inspection API server",
	Long: `ECIS Inspection is a REST API server for lifting and pressure equipment
inspection records. It manages equipment, checklists, inspection reports
and the quote requests submitted from the public website.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: search in current directory, ./config, or $HOME/.ecis-inspection)")
}

// GetRootCmd 返回根命令（用于测试）
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig 加载配置并按配置初始化全局日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logger)

	return cfg, nil
}
