// Package main provides the CLI entry point for the billing extraction
// engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atlasinovacoes/faturamento/internal/logging"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/cache"
	"github.com/atlasinovacoes/faturamento/pkg/faturamento/processor"
)

var log = logging.Log

var (
	cfgFile    string
	xlsxDir    string
	cacheDir   string
	noCache    bool
	regiao     string
	mes        string
	unidade    string
	columns    []string
	outputPath string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "faturamento",
		Short: "Extract normalized billing rows from regional measurement workbooks",
		Long: `faturamento locates the monthly measurement workbook of a region,
maps its noisy column headers to the canonical billing schema and extracts
the normalized rows of one unit for a target issue month.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.faturamento.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&xlsxDir, "xlsx-dir", "", "Directory containing the source workbooks")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for the persistent sheet cache")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the persistent sheet cache")

	rootCmd.AddCommand(extractCmd(), unitsCmd(), workbookCmd(), columnsCmd(), cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".faturamento")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("faturamento")
	viper.AutomaticEnv()

	viper.SetDefault("xlsx_dir", "planilhas")
	viper.SetDefault("cache_dir", "")
	viper.SetDefault("cache_ttl_hours", 24)
	viper.SetDefault("default_regiao", "SP1")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.WithError(err).Warn("could not read config file")
		}
	}

	if xlsxDir == "" {
		xlsxDir = viper.GetString("xlsx_dir")
	}
	if cacheDir == "" {
		cacheDir = viper.GetString("cache_dir")
	}
}

func setLogLevelFromFlags(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("loglevel")
	logging.SetLogLevel(level)
}

// openCache opens the configured persistent cache, or returns nil when
// disabled or unconfigured. A cache that fails to open only costs speed.
func openCache() *cache.Cache {
	if noCache || cacheDir == "" {
		return nil
	}
	ttl := time.Duration(viper.GetInt("cache_ttl_hours")) * time.Hour
	c, err := cache.New(cacheDir, ttl)
	if err != nil {
		log.WithError(err).Warn("persistent cache unavailable, continuing without")
		return nil
	}
	return c
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the billing rows of one unit for a target month",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			if regiao == "" {
				regiao = viper.GetString("default_regiao")
			}
			if mes == "" || unidade == "" {
				return fmt.Errorf("--mes and --unidade are required")
			}

			opts := faturamento.DefaultOptions()
			opts.DisplayColumns = columns
			opts.PersistentCache = openCache()

			result, err := faturamento.GetRowsFor(xlsxDir, regiao, mes, unidade, opts)
			if err != nil {
				return err
			}
			return writeJSON(result)
		},
	}
	cmd.Flags().StringVarP(&regiao, "regiao", "r", "", "Region code (SP1, SP2, SP3, RJ, NNE)")
	cmd.Flags().StringVarP(&mes, "mes", "m", "", "Target NF issue month (YYYY-MM)")
	cmd.Flags().StringVarP(&unidade, "unidade", "u", "", "Unit name")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Display column whitelist (default: canonical set)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func unitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the valid units of a region's sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			if regiao == "" {
				regiao = viper.GetString("default_regiao")
			}
			opts := faturamento.DefaultOptions()
			opts.PersistentCache = openCache()

			units, err := faturamento.ListUnitsForRegion(xlsxDir, regiao, opts)
			if err != nil {
				return err
			}
			for _, u := range units {
				fmt.Println(u)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&regiao, "regiao", "r", "", "Region code (SP1, SP2, SP3, RJ, NNE)")
	return cmd
}

func workbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workbook",
		Short: "Print the resolved workbook path for a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			if regiao == "" {
				regiao = viper.GetString("default_regiao")
			}
			wb, err := faturamento.FindWorkbook(xlsxDir, regiao)
			if err != nil {
				return err
			}
			fmt.Println(wb)
			return nil
		},
	}
	cmd.Flags().StringVarP(&regiao, "regiao", "r", "", "Region code (SP1, SP2, SP3, RJ, NNE)")
	return cmd
}

func columnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the default and optional display columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			return writeJSON(map[string][]string{
				"default": processor.DefaultDisplayColumns,
				"extras":  processor.ExtraOptionalColumns,
			})
		},
	}
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent sheet cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache contents and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			c := openCache()
			if c == nil {
				return fmt.Errorf("no cache configured (set --cache-dir or cache_dir)")
			}
			return writeJSON(c.Stats())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			c := openCache()
			if c == nil {
				return fmt.Errorf("no cache configured (set --cache-dir or cache_dir)")
			}
			fmt.Printf("%d expired item(s) removed\n", c.CleanupExpired())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevelFromFlags(cmd)
			c := openCache()
			if c == nil {
				return fmt.Errorf("no cache configured (set --cache-dir or cache_dir)")
			}
			fmt.Printf("%d item(s) removed\n", c.Clear())
			return nil
		},
	})

	return cmd
}

func writeJSON(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}
