package cmd

import (
	"fmt"

	"github.com/ecis/inspection-gin/internal/auth"
	"github.com/spf13/cobra"
)

// hashKeyCmd 生成 api.key_hash 配置值
var hashKeyCmd = &cobra.Command{
	Use:   "hash-key <api-key>",
	Short: "Print the bcrypt hash of an API key",
	Long: `Print the bcrypt hash of an API key for the api.key_hash setting,
so the plain key does not have to be stored in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashKeyCmd)
}
