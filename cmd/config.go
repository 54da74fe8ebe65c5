package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kivo360/omoictl/internal/config"
	"github.com/kivo360/omoictl/types"
)

const (
	configName = ".omoictl"
	envPrefix  = "OMOICTL"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	return validate.Struct(cfg)
}

// setConfigDefaults registers defaults so a bare install works against a
// local backend with no config file at all.
func setConfigDefaults() {
	viper.SetDefault("backend.url", config.DefaultBackendURL)
	viper.SetDefault("backend.requestTimeoutSeconds", config.DefaultRequestTimeoutSeconds)

	viper.SetDefault("resources.cpu.min", config.DefaultCPUMin)
	viper.SetDefault("resources.cpu.max", config.DefaultCPUMax)
	viper.SetDefault("resources.cpu.step", config.DefaultCPUStep)
	viper.SetDefault("resources.memory.min", config.DefaultMemoryMin)
	viper.SetDefault("resources.memory.max", config.DefaultMemoryMax)
	viper.SetDefault("resources.memory.step", config.DefaultMemoryStep)
	viper.SetDefault("resources.disk.min", config.DefaultDiskMin)
	viper.SetDefault("resources.disk.max", config.DefaultDiskMax)
	viper.SetDefault("resources.disk.step", config.DefaultDiskStep)

	viper.SetDefault("telemetry.enabled", false)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present; it's fine if it doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., OMOICTL_BACKEND_URL
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setConfigDefaults()

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName(configName)
		viper.AddConfigPath(".") // ./.omoictl.yaml for per-project overrides
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config") // ~/.omoictl/config.yaml
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", viper.ConfigFileUsed(), err)
		}
		// Not finding a config file is fine; defaults and env cover it.
	} else if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Pick up edits to the config file without restarting long-lived panels.
	viper.WatchConfig()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to decode config into struct: %v\n", err)
		os.Exit(1)
	}
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}

// configCmd prints the resolved configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		fmt.Printf("backend.url: %s\n", cfg.Backend.URL)
		fmt.Printf("backend.requestTimeoutSeconds: %d\n", cfg.Backend.RequestTimeoutSeconds)
		if cfg.Project.ID != "" {
			fmt.Printf("project.id: %s\n", cfg.Project.ID)
		}
		fmt.Printf("telemetry.enabled: %t\n", cfg.Telemetry.Enabled)
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Printf("config file: %s\n", used)
		}
		return nil
	},
}

// configSetBackendCmd persists the backend URL (and optional default
// project) to the global config file.
var configSetBackendCmd = &cobra.Command{
	Use:   "set-backend <url>",
	Short: "Persist the backend URL to the global config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetString("project")
		if err := config.SaveGlobalBackendConfig(args[0], projectID); err != nil {
			return fmt.Errorf("save backend config: %w", err)
		}
		fmt.Println("Saved.")
		return nil
	},
}

func init() {
	configSetBackendCmd.Flags().String("project", "", "default project ID")
	configCmd.AddCommand(configSetBackendCmd)
	rootCmd.AddCommand(configCmd)
}
