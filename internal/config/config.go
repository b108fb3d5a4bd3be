package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/gubarz/lit/internal/markup"
)

// Config holds the application configuration
type Config struct {
	Begin        string `mapstructure:"begin"`
	End          string `mapstructure:"end"`
	Comment      string `mapstructure:"comment"`
	Mode         string `mapstructure:"mode"`
	LineNumbers  bool   `mapstructure:"line_numbers"`
	ColorComment string `mapstructure:"color_comment"`
	ColorCode    string `mapstructure:"color_code"`
	ColorStatus  string `mapstructure:"color_status"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	defaults := markup.DefaultOptions()
	viper.SetDefault("begin", defaults.Begin)
	viper.SetDefault("end", defaults.End)
	viper.SetDefault("comment", defaults.Comment)
	viper.SetDefault("mode", string(markup.MarkupToProgram))
	viper.SetDefault("line_numbers", true)
	viper.SetDefault("color_comment", "90") // Gray
	viper.SetDefault("color_code", "32")    // Green
	viper.SetDefault("color_status", "36")  // Cyan

	viper.SetConfigName("lit")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "lit"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("LIT")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetBegin returns the begin sentinel
func GetBegin() string {
	return viper.GetString("begin")
}

// GetEnd returns the end sentinel
func GetEnd() string {
	return viper.GetString("end")
}

// GetComment returns the comment prefix
func GetComment() string {
	return viper.GetString("comment")
}

// GetMode returns the conversion direction as configured
func GetMode() string {
	return viper.GetString("mode")
}

// GetLineNumbers returns whether the preview shows a line number gutter
func GetLineNumbers() bool {
	return viper.GetBool("line_numbers")
}

// GetColorComment returns ANSI color code for commented lines
func GetColorComment() string {
	return viper.GetString("color_comment")
}

// GetColorCode returns ANSI color code for code lines
func GetColorCode() string {
	return viper.GetString("color_code")
}

// GetColorStatus returns ANSI color code for the preview status bar
func GetColorStatus() string {
	return viper.GetString("color_status")
}

// MarkupOptions collects the sentinels into transform options
func MarkupOptions() markup.Options {
	return markup.Options{
		Begin:   GetBegin(),
		End:     GetEnd(),
		Comment: GetComment(),
	}
}

// ConfigFile returns the config file in use, if any
func ConfigFile() string {
	return viper.ConfigFileUsed()
}
