// Package bootstrap loads the static seed-contact list a kbucketctl run
// admits into a fresh routing table before reporting on it.
package bootstrap

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the unmarshalled shape of a kbucketctl YAML config file.
type Config struct {
	Table    TableS     `mapstructure:"table"`
	Log      LogS       `mapstructure:"log"`
	Contacts []ContactS `mapstructure:"contacts"`
}

// TableS configures the routing table itself.
type TableS struct {
	LocalID           string `mapstructure:"local_id"`
	ContactsPerBucket int    `mapstructure:"contacts_per_bucket"`
	ContactsToPing    int    `mapstructure:"contacts_to_ping"`
}

// LogS configures the zap logger kbucketctl builds.
type LogS struct {
	Level string `mapstructure:"level"`
}

// ContactS is one seed contact: a base58 identifier, a multiaddr string
// and the protocol it advertises.
type ContactS struct {
	ID       string `mapstructure:"id"`
	Address  string `mapstructure:"address"`
	Protocol string `mapstructure:"protocol"`
}

// Load reads path into a Config via viper, defaulting table parameters
// that are left unset.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("table.contacts_per_bucket", 20)
	v.SetDefault("table.contacts_to_ping", 3)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config file")
	}

	return cfg, nil
}
