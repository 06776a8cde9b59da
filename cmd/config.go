package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the output defaults. Precedence is defaults < config file
// < SCHEMA2MD_* environment < flags.
type Config struct {
	Clear     bool
	Index     bool
	Header    string
	OutName   string
	OutFolder string
}

// ConfigOption describes one configurable default.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

func configOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "clear", Default: true, Comment: "Clear folder before writing"},
		{Key: "index", Default: true, Comment: "Write index file with toctree to folder"},
		{Key: "header", Default: "Schemas", Comment: "Title of index file"},
		{Key: "out_name", Default: "%s.md", Comment: "Format for naming output, %s substitutes the schema key"},
		{Key: "out_folder", Default: "schemas", Comment: "Folder to write formatted docs in"},
	}
}

// loadConfig resolves the output settings for cmd. Flags given on the
// command line win over config file and environment.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "schema2md"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "schema2md"))
	}
	v.AddConfigPath(".")

	for _, o := range configOptions() {
		v.SetDefault(o.Key, o.Default)
	}
	_ = v.ReadInConfig()

	v.SetEnvPrefix("schema2md")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Clear:     boolSetting(cmd, v, "clear", "clear"),
		Index:     boolSetting(cmd, v, "index", "index"),
		Header:    stringSetting(cmd, v, "header", "header"),
		OutName:   stringSetting(cmd, v, "out-name", "out_name"),
		OutFolder: stringSetting(cmd, v, "out-folder", "out_folder"),
	}
	return cfg, nil
}

func boolSetting(cmd *cobra.Command, v *viper.Viper, flag string, key string) bool {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetBool(flag)
		return value
	}
	return v.GetBool(key)
}

func stringSetting(cmd *cobra.Command, v *viper.Viper, flag string, key string) string {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetString(flag)
		return value
	}
	return v.GetString(key)
}
