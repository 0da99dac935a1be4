package htmlgen

import (
	"os"

	"github.com/pkg/errors"
)

// Default file names for the blog article.
const (
	DefaultInput  = "INFORMATICA_AGENT_TECH_BLOG.md"
	DefaultOutput = "INFORMATICA_AGENT_TECH_BLOG.html"
)

// ErrInputNotFound is returned when the Markdown file does not exist.
var ErrInputNotFound = errors.New("markdown input not found")

// ConvertFile renders the Markdown file at input and writes the page to output.
func ConvertFile(input, output string, opts Options) error {
	source, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrInputNotFound, input)
		}
		return errors.Wrapf(err, "read %s", input)
	}

	page, err := Render(source, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, page, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", output)
	}
	return nil
}
