package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/taskboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config (file, environment and flags)",
	RunE:  runConfigShow,
}

var forceInit bool

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil && !forceInit {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", cfgPath)
	}

	c := config.DefaultConfig()
	if cmd.Flags().Changed("db") {
		c.DBPath = dbFlag
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}
	if err := config.SaveConfig(cfgPath, c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config: %s\n", cfgPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbFlag
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
