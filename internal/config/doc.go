// Package config loads and holds jmbglens settings.
//
// Settings come from three layers, lowest first: built-in defaults, a TOML
// or YAML file, and JMBGLENS_* environment variables. Runtime overrides set
// through Store.Set sit on top and survive reloads. Every change that alters
// an effective value is reported as a config.changed event naming the
// changed paths.
//
// Setting paths:
//
//	decoration.borderWidth   "2px"
//	decoration.borderStyle   "solid"
//	decoration.borderColor   "#ff8800"
//	paste.settleDelay        100ms
//	log.level                "info"
package config
