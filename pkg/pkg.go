// Package pkg holds the identity of the moye module: its name, version and
// the file conventions shared by the command line and the REPL.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded at build time, printed by
// --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables such as MOYE_PATH.
	Name = "moye"

	// Description is the one-line summary shown in help output.
	Description = "Interpreter for a minimal integer expression language"

	// Extension is the file extension of moye scripts.
	Extension = ".moye"
)

// AuthorInfo identifies an author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors of moye.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
