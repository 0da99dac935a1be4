// Package extractor turns Informatica workflow exports into flat search
// documents.
package extractor

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"

	"informatica-search/internal/logging"
	"informatica-search/pkg/models"
)

// Element and attribute names read from the export.
const (
	tagWorkflow       = "WORKFLOW"
	tagSource         = "SOURCE"
	tagTarget         = "TARGET"
	tagTransformation = "TRANSFORMATION"

	attrName        = "NAME"
	attrMappingName = "MAPPINGNAME"
	attrSessionName = "SESSIONNAME"
	attrType        = "TYPE"
)

// Reason classifies why a document produced no records.
type Reason string

const (
	// ReasonParse means the bytes were not well-formed XML.
	ReasonParse Reason = "parse"
	// ReasonInternal means extraction itself failed on parseable input.
	ReasonInternal Reason = "internal"
)

// Failure is the typed failure carried by a Result.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s error: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of extracting one document. Exactly one of Records
// (possibly empty) or Failure is meaningful: a nil Failure with no records
// means the document parsed and simply had no workflows.
type Result struct {
	Document string
	Records  []models.WorkflowRecord
	Failure  *Failure
}

// OK reports whether the document parsed.
func (r Result) OK() bool { return r.Failure == nil }

// Extractor parses workflow exports. It holds no per-call state and is safe
// to share.
type Extractor struct {
	logger *logging.Logger
}

// New creates an Extractor that logs failed documents to logger.
func New(logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{logger: logger}
}

// Extract parses content and returns one record per WORKFLOW element below
// the document element, in document order. It never panics or returns an error; failures are logged
// and reported on the Result.
func (x *Extractor) Extract(content []byte, document string) (res Result) {
	res.Document = document

	defer func() {
		if p := recover(); p != nil {
			res.Records = nil
			res.Failure = &Failure{Reason: ReasonInternal, Err: errors.Errorf("panic: %v", p)}
		}
		if res.Failure != nil {
			x.logger.Error("Failed to extract workflows", "document", document, "reason", string(res.Failure.Reason), "error", res.Failure.Err)
		}
	}()

	workflows, err := scan(content)
	if err != nil {
		res.Failure = &Failure{Reason: ReasonParse, Err: err}
		return res
	}

	res.Records = make([]models.WorkflowRecord, 0, len(workflows))
	for _, wf := range workflows {
		res.Records = append(res.Records, wf.record(document))
	}
	return res
}

// workflow collects what the record needs from one WORKFLOW subtree.
type workflow struct {
	depth           int
	name            string
	mapping         string
	session         string
	sources         []string
	targets         []string
	transformations []string
}

var idReplacer = strings.NewReplacer(" ", "_", ".", "_")

func (w *workflow) record(document string) models.WorkflowRecord {
	id := idReplacer.Replace(fmt.Sprintf("%s_%s_%s", document, w.name, w.mapping))
	return models.WorkflowRecord{
		ID:   models.Truncate(id, models.MaxIDLength),
		Name: models.Truncate(w.name, models.MaxNameLength),
		Type: models.TypeWorkflow,
		Description: fmt.Sprintf(
			"Mapping: %s, Session: %s, XML: %s, Sources: %d, Targets: %d, Transformations: %d",
			w.mapping, w.session, document, len(w.sources), len(w.targets), len(w.transformations),
		),
	}
}

// utf8BOM is skipped before decoding; the decoder would otherwise report it
// as text outside the document element.
var utf8BOM = []byte("\xef\xbb\xbf")

// scan walks the token stream once. Only WORKFLOW elements below the
// document element are recorded. Every open WORKFLOW collects the
// SOURCE/TARGET/TRANSFORMATION elements anywhere beneath it, so nested
// workflows count their descendants in each enclosing workflow too.
// Prefixed or namespaced elements and attributes never match.
func scan(content []byte) ([]*workflow, error) {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		found    []*workflow
		open     []*workflow
		depth    int
		rootSeen bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "xml syntax")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if rootSeen {
					line, _ := dec.InputPos()
					return nil, errors.Errorf("line %d: junk after document element", line)
				}
				rootSeen = true
			}
			depth++
			if t.Name.Space != "" {
				continue
			}

			switch t.Name.Local {
			case tagWorkflow:
				if depth == 1 {
					continue
				}
				wf := &workflow{
					depth:   depth,
					name:    attrOrUnknown(t, attrName),
					mapping: attrOrUnknown(t, attrMappingName),
					session: attrOrUnknown(t, attrSessionName),
				}
				found = append(found, wf)
				open = append(open, wf)
			case tagSource:
				if name := attr(t, attrName); name != "" {
					for _, wf := range open {
						wf.sources = append(wf.sources, name)
					}
				}
			case tagTarget:
				if name := attr(t, attrName); name != "" {
					for _, wf := range open {
						wf.targets = append(wf.targets, name)
					}
				}
			case tagTransformation:
				name, kind := attr(t, attrName), attr(t, attrType)
				if name != "" && kind != "" {
					desc := fmt.Sprintf("%s (%s)", name, kind)
					for _, wf := range open {
						wf.transformations = append(wf.transformations, desc)
					}
				}
			}

		case xml.EndElement:
			if n := len(open); n > 0 && open[n-1].depth == depth {
				open = open[:n-1]
			}
			depth--

		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside the document element")
			}
		}
	}

	if !rootSeen {
		return nil, errors.New("no document element")
	}
	return found, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrOrUnknown(el xml.StartElement, name string) string {
	if v := attr(el, name); v != "" {
		return v
	}
	return models.UnknownValue
}
