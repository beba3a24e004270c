package config

import "github.com/spf13/viper"

// setDefaults installs the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./at2d-data")

	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.sync_writes", true)

	// A group of 7 with threshold 2 tolerates 2 faulty replicas and needs
	// a quorum of 3 shares.
	v.SetDefault("group.size", 7)
	v.SetDefault("group.threshold", 2)

	v.SetDefault("demo.sender_balance", 100)
	v.SetDefault("demo.recipient_balance", 10)
	v.SetDefault("demo.amount", 25)
}
