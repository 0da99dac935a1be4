package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"informatica-search/internal/htmlgen"
	"informatica-search/internal/logging"
)

func main() {
	var (
		input  string
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:           "htmlgen",
		Short:         "Convert the Markdown article to print-ready HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := htmlgen.ConvertFile(input, output, htmlgen.Options{Title: title}); err != nil {
				if errors.Is(err, htmlgen.ErrInputNotFound) {
					return fmt.Errorf("%s not found", input)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "HTML created successfully: %s\n", output)
			fmt.Fprintln(out, "Open the HTML file in your browser and use Ctrl+P (or Cmd+P) to print as PDF")
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", htmlgen.DefaultInput, "Markdown file to convert")
	cmd.Flags().StringVarP(&output, "output", "o", htmlgen.DefaultOutput, "HTML file to write")
	cmd.Flags().StringVar(&title, "title", "", "Page title (default: front matter title or built-in)")

	if err := cmd.Execute(); err != nil {
		logging.NewLogger().Error("Conversion failed", "error", err)
		os.Exit(1)
	}
}
