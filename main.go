package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"BrambleDB/server"
	diskmanager "BrambleDB/storage_engine/disk_manager"
	"BrambleDB/types"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "brambledb",
	Short: "Copy-on-write trie store with a paged buffer pool",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trie store as a string KV service over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Serve(server.Config{
			ListenAddr:  viper.GetString("listen"),
			MetricsAddr: viper.GetString("metrics-listen"),
			PageFile:    viper.GetString("page-file"),
			PageSize:    viper.GetInt("page-size"),
			PoolSize:    viper.GetInt("pool-size"),
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.db>",
	Short: "Dump the header and pages of a db file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return diskmanager.InspectFile(args[0])
	},
}

func init() {
	serveCmd.Flags().String("listen", ":3000", "KV service listen address")
	serveCmd.Flags().String("metrics-listen", ":9100", "prometheus listen address, empty disables")
	serveCmd.Flags().String("page-file", "", "db file served on the page routes")
	serveCmd.Flags().Int("page-size", types.DefaultPageSize, "bytes per page when creating the page file")
	serveCmd.Flags().Int("pool-size", types.DefaultPoolSize, "buffer pool frames for the page file")
	viper.BindPFlags(serveCmd.Flags())

	viper.SetEnvPrefix("bramble")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetConfigName("brambledb")
	viper.AddConfigPath(".")

	rootCmd.AddCommand(serveCmd, inspectCmd)
}

func main() {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
