package app

import (
	"github.com/spf13/viper"
)

// ConfigureViper sets up viper with standard config file search paths.
// Config file: stevedore.{yaml,toml}
// Search paths (in order): current directory, ~/.config/stevedore, /etc/stevedore
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.SetConfigName("stevedore")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/stevedore")
	v.AddConfigPath("/etc/stevedore")
}
