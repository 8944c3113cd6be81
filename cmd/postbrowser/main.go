package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile string
	cfg     Config
)

// flagKeys binds command flags onto config keys so flags win over file and
// environment values.
var flagKeys = map[string]string{
	"addr":     "server.addr",
	"source":   "source.kind",
	"endpoint": "source.endpoint",
	"dir":      "source.dir",
	"database": "source.database",
	"watch":    "source.watch",
}

var rootCmd = &cobra.Command{
	Use:   "postbrowser",
	Short: "Search, filter and page through a blog's posts",
	Long: `postbrowser loads the posts, categories and tags of a blog from a
headless content API, a directory of Markdown files or a local SQLite
mirror, and serves a searchable, filterable, paginated index of them on
the web or in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	c, err := loadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./postbrowser.yaml)")
	rootCmd.AddCommand(serveCmd(), syncCmd(), browseCmd(), versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		failure(err)
		os.Exit(1)
	}
}
