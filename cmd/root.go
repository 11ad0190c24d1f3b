/*
Copyright © 2025 Vitalii Lytvyn <vitln.dev@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.3.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "modlate",
	Short: "Minecraft mod localization pipeline",
	Long: `modlate extracts translatable strings from Minecraft mod archives,
translates them through an external provider with persistent caching,
and repacks the archive with new locale entries.

Supported providers: MyMemory (free), Google Translate, OpenAI.

Use "modlate translate --help" for translation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.modlate.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("env", "local", "Environment name; \"local\" enables console log output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("env"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".modlate")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("MODLATE")
	viper.AutomaticEnv()

	viper.SetDefault("db", defaultDataPath("modlate.db"))
	viper.SetDefault("cache", defaultDataPath("translations.json"))
	viper.SetDefault("target", "ru")
	viper.SetDefault("service", "mymemory")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// defaultDataPath places persistent files under ~/.modlate/.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", name)
	}
	return filepath.Join(home, ".modlate", name)
}
