package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/export"
)

// sourceList is a comma separated list of source IDs such as "wikipedia,related".
type sourceList []concept.Source

func (l *sourceList) Set(val string) error {
	sources, err := concept.ParseSources(strings.Split(val, ","))
	if err != nil {
		return fmt.Errorf("invalid sources: %w", err)
	}
	*l = sources
	return nil
}

func (l sourceList) String() string {
	return strings.Join(concept.SourceIDs(l), ",")
}

func (l *sourceList) Type() string {
	return "sources"
}

type exportFormat export.Format

func (f *exportFormat) Set(val string) error {
	format, err := export.ParseFormat(val)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	*f = exportFormat(format)
	return nil
}

func (f exportFormat) String() string {
	return string(f)
}

func (f *exportFormat) Type() string {
	return "format"
}

var (
	_ pflag.Value = (*sourceList)(nil)
	_ pflag.Value = (*exportFormat)(nil)
)

// explorerFlags are the search settings every command can override.
type explorerFlags struct {
	sources     sourceList
	maxConcepts int
}

func (f *explorerFlags) register(flags *pflag.FlagSet) {
	flags.Var(&f.sources, "sources", fmt.Sprintf("Sources to search. Possible values are %v", concept.SourceIDs(concept.CanonicalSources)))
	flags.IntVar(&f.maxConcepts, "max", 0, "Maximum concepts per source (3-15). Defaults to the configured value")
}
