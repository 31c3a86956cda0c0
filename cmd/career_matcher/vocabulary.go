package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-matcher/internal/parsing"
)

var vocabularyJSON bool

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List the curated skill vocabulary used by the CV parser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeVocabulary(cmd.OutOrStdout(), parsing.DefaultVocabulary(), vocabularyJSON)
	},
}

func init() {
	vocabularyCmd.Flags().BoolVar(&vocabularyJSON, "json", false, "Print the vocabulary as JSON")
	rootCmd.AddCommand(vocabularyCmd)
}

type vocabularyGroup struct {
	Group parsing.SkillGroup `json:"group"`
	Terms []string           `json:"terms"`
}

type vocabularyListing struct {
	Version string            `json:"version"`
	Groups  []vocabularyGroup `json:"groups"`
}

// listVocabulary groups terms in vocabulary order
func listVocabulary(v *parsing.Vocabulary) vocabularyListing {
	listing := vocabularyListing{Version: v.Version, Groups: []vocabularyGroup{}}
	index := make(map[parsing.SkillGroup]int)
	for _, term := range v.Terms() {
		group, ok := v.Group(term)
		if !ok {
			continue
		}
		i, seen := index[group]
		if !seen {
			i = len(listing.Groups)
			index[group] = i
			listing.Groups = append(listing.Groups, vocabularyGroup{Group: group})
		}
		listing.Groups[i].Terms = append(listing.Groups[i].Terms, term)
	}
	return listing
}

func writeVocabulary(out io.Writer, v *parsing.Vocabulary, asJSON bool) error {
	listing := listVocabulary(v)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	_, _ = fmt.Fprintf(out, "Vocabulary %s\n", listing.Version)
	for _, g := range listing.Groups {
		_, _ = fmt.Fprintf(out, "\n%s (%d)\n", g.Group, len(g.Terms))
		for _, term := range g.Terms {
			_, _ = fmt.Fprintf(out, "  %s\n", term)
		}
	}
	return nil
}
