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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitln/modlate/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent translation cache",
	Long:  `Inspect and clear the on-disk translation cache.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cache.New(viper.GetString("cache"))
		if err := c.Load(); err != nil {
			return fmt.Errorf("failed to load cache: %w", err)
		}

		fmt.Printf("Cache file: %s\n", c.Path())
		fmt.Printf("Entries:    %d\n", c.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached translation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cache.New(viper.GetString("cache"))
		if err := c.Load(); err != nil {
			return fmt.Errorf("failed to load cache: %w", err)
		}
		n := c.Len()

		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d entries from the translation cache.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
