package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// fieldFlag binds one artwork field to a command-line flag and a prompt label
type fieldFlag struct {
	name      string
	shorthand string
	label     string
	get       func(*domain.ArtworkFields) *string
}

var artworkFieldFlags = []fieldFlag{
	{"asset", "n", "Asset number", func(f *domain.ArtworkFields) *string { return &f.AssetNumber }},
	{"author", "a", "Author", func(f *domain.ArtworkFields) *string { return &f.Author }},
	{"title", "t", "Title", func(f *domain.ArtworkFields) *string { return &f.Title }},
	{"year", "y", "Year", func(f *domain.ArtworkFields) *string { return &f.Year }},
	{"technique", "k", "Technique", func(f *domain.ArtworkFields) *string { return &f.Technique }},
	{"dimensions", "d", "Dimensions", func(f *domain.ArtworkFields) *string { return &f.Dimensions }},
	{"comments", "c", "Comments", func(f *domain.ArtworkFields) *string { return &f.Comments }},
}

// addFieldFlags registers one flag per artwork field on cmd
func addFieldFlags(cmd *cobra.Command, fields *domain.ArtworkFields) {
	for _, f := range artworkFieldFlags {
		cmd.Flags().StringVarP(f.get(fields), f.name, f.shorthand, "", f.label)
	}
}

// anyFieldFlag reports whether at least one field flag was given
func anyFieldFlag(cmd *cobra.Command) bool {
	for _, f := range artworkFieldFlags {
		if cmd.Flags().Changed(f.name) {
			return true
		}
	}
	return false
}

// promptMissingFields asks for every field whose flag was not given.
// Values shown in brackets are kept on an empty answer.
func promptMissingFields(cmd *cobra.Command, fields *domain.ArtworkFields, current domain.ArtworkFields) error {
	for _, f := range artworkFieldFlags {
		if cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := prompt(f.label, *f.get(&current))
		if err != nil {
			return err
		}
		*f.get(fields) = value
	}
	fmt.Println()
	return nil
}
