package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/coolbeans/sopex/pkg/export"
	"github.com/coolbeans/sopex/pkg/sop"
	"github.com/coolbeans/sopex/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sopex",
		Short: "SOP file-reference extractor",
		Long: `Sopex parses Standard Operating Procedure documents written in a
semi-structured markdown dialect and extracts the file references their
process blocks describe.

An SOP document consists of a metadata preamble followed by blank-line
delimited blocks: free-text blocks (Introduction, Literature), process
blocks (Analysis, Quality control) with attributes and "## " subsections,
and a semicolon-delimited History block.`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("profile", "", "Path to a YAML dialect profile (default: built-in SOP dialect)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newParser builds a parser from the --profile persistent flag.
func newParser(cmd *cobra.Command) (*sop.Parser, error) {
	profilePath, _ := cmd.Flags().GetString("profile")
	if profilePath == "" {
		return sop.NewParser(), nil
	}
	profile, err := sop.LoadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	return sop.NewParserWithProfile(profile), nil
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract file references from an SOP document",
		Long: `Extract scans an SOP document for file references: one record per
subsection of each process block, carrying the subsection name, its
Location attribute (default ".") and its Format attribute (default "").

Without --output, each record is printed to stdout as one-line JSON.

Example:
  sopex extract -i imaging_sop.md
  sopex extract -i imaging_sop.md -o refs.json
  sopex extract -i imaging_sop.md -o refs.csv -f csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			formatStr, _ := cmd.Flags().GetString("format")

			if input == "" {
				return fmt.Errorf("input SOP file is required")
			}
			if formatStr != "json" && formatStr != "csv" {
				return fmt.Errorf("unsupported format %q (expected json or csv)", formatStr)
			}

			parser, err := newParser(cmd)
			if err != nil {
				return err
			}

			refs, err := parser.ExtractFile(input)
			if err != nil {
				return err
			}

			if output == "" {
				for _, ref := range refs {
					line, err := json.Marshal(ref)
					if err != nil {
						return err
					}
					fmt.Println(string(line))
				}
			} else {
				if err := writeReferences(output, formatStr, refs); err != nil {
					return err
				}
				fmt.Printf("Wrote %d file references to %s\n", len(refs), output)
			}

			fmt.Println("Done.")
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input SOP file (.md)")
	cmd.Flags().StringP("output", "o", "", "Output filename (default: print to stdout)")
	cmd.Flags().StringP("format", "f", "json", "Output format (json, csv)")

	return cmd
}

func writeReferences(path, format string, refs []sop.FileReference) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	switch format {
	case "csv":
		return export.WriteCSV(f, refs)
	default:
		return export.WriteJSON(f, refs)
	}
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse an SOP document and print its full structure",
		Long: `Parse reads an SOP document and prints the complete parsed structure
as indented JSON: the metadata preamble plus every block with its
attributes, subsections, and history entries.

Example:
  sopex parse -i imaging_sop.md
  sopex parse -i imaging_sop.md -o imaging_sop.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")

			if input == "" {
				return fmt.Errorf("input SOP file is required")
			}

			parser, err := newParser(cmd)
			if err != nil {
				return err
			}

			doc, err := parser.ParseFile(input)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(doc, "", "    ")
			if err != nil {
				return fmt.Errorf("serializing document: %w", err)
			}

			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			fmt.Printf("Parsed document written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input SOP file (.md)")
	cmd.Flags().StringP("output", "o", "", "Output filename (default: print to stdout)")

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and report file references as SOPs change",
		Long: `Watch polls a directory for new or modified SOP documents and prints
the extracted file references for each change. Documents that fail to
parse are reported without stopping the watch. Stop with Ctrl-C.

Example:
  sopex watch --dir ./sops
  sopex watch --dir ./sops --interval 10s --pattern '*.sop.md'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			interval, _ := cmd.Flags().GetDuration("interval")
			patterns, _ := cmd.Flags().GetStringSlice("pattern")
			computeHash, _ := cmd.Flags().GetBool("hash")

			profilePath, _ := cmd.Flags().GetString("profile")
			var profile *sop.Profile
			if profilePath != "" {
				var err error
				if profile, err = sop.LoadProfile(profilePath); err != nil {
					return err
				}
			}

			watcher := watch.New(watch.Config{
				Dir:         dir,
				Patterns:    patterns,
				Interval:    interval,
				ComputeHash: computeHash,
				Profile:     profile,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Printf("Watching %s (every %s, Ctrl-C to stop)\n", dir, watcher.Interval())

			err := watcher.Run(ctx, func(change watch.Change) {
				if change.Err != nil {
					fmt.Printf("%s: parse failed: %v\n", change.Path, change.Err)
					return
				}
				fmt.Printf("%s: %d file references\n", change.Path, len(change.References))
				for _, ref := range change.References {
					fmt.Printf("  %s (location: %s, format: %q)\n", ref.Name, ref.Location, ref.Format)
				}
			})
			if ctx.Err() != nil {
				fmt.Println("Stopped.")
				return nil
			}
			return err
		},
	}

	cmd.Flags().String("dir", ".", "Directory to watch")
	cmd.Flags().Duration("interval", 2*time.Second, "Polling interval")
	cmd.Flags().StringSlice("pattern", nil, "Glob patterns for SOP file names (default *.md)")
	cmd.Flags().Bool("hash", false, "Hash file contents to detect edits that keep the mod time")

	return cmd
}
