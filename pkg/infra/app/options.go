package app

import "github.com/spf13/pflag"

// CliOptions is implemented by an application's root options struct.
type CliOptions interface {
	// AddFlags adds flags to the flagset.
	AddFlags(fs *pflag.FlagSet)
	// Complete fills defaults that depend on other fields or the environment.
	Complete() error
	// Validate validates the options.
	Validate() error
}
