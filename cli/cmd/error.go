package cmd

import "github.com/ardnew/moye/lang"

// Command errors share [lang.Error] so that callers can log and match them
// the same way as interpreter errors.
var (
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrLoadPrelude = lang.NewError("load prelude")
	ErrNoSource    = lang.NewError("no readable source")
)
