package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"
)

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if viper.GetString("format") == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as
// a CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if viper.GetString("format") == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIDir:
		formatDirsText(w, v)
	case []CLIEntry:
		formatEntriesText(w, v)
	case []CLIDecl:
		formatDeclsText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// formatDirsText lists directories one per line, flagging missing ones.
func formatDirsText(w io.Writer, dirs []CLIDir) {
	for _, d := range dirs {
		if d.Exists {
			fmt.Fprintln(w, d.Path)
		} else {
			fmt.Fprintf(w, "%s (missing)\n", d.Path)
		}
	}
}

// formatEntriesText formats CLIEntry results as aligned columns.
func formatEntriesText(w io.Writer, entries []CLIEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tPATH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Version, e.Path)
	}
	tw.Flush()
}

// formatDeclsText formats CLIDecl results as aligned columns. Class members
// render as parent.name.
func formatDeclsText(w io.Writer, decls []CLIDecl) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tLINE\tCOL\tALIASED")
	for _, d := range decls {
		name := d.Name
		if d.Parent != "" {
			name = d.Parent + "." + d.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\n", name, d.Kind, d.Line, d.Col, d.Aliased)
	}
	tw.Flush()
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
