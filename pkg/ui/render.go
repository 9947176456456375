package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	berrors "github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/plan"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/arthur-debert/buildenv/pkg/ui/styles"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// EntryDocument is one plan entry in structured output
type EntryDocument struct {
	Path     string `json:"path" yaml:"path" toml:"path"`
	Kind     string `json:"kind" yaml:"kind" toml:"kind"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Priority int    `json:"priority" yaml:"priority" toml:"priority"`
}

// PlanDocument is the structured form of a plan
type PlanDocument struct {
	Entries []EntryDocument `json:"entries" yaml:"entries" toml:"entry"`
}

// NewPlanDocument lists every entry below the root, parents first
func NewPlanDocument(p *plan.Plan) PlanDocument {
	doc := PlanDocument{Entries: []EntryDocument{}}
	for _, rel := range p.Paths() {
		if rel == "" {
			continue
		}
		e := p.Get(rel)
		doc.Entries = append(doc.Entries, EntryDocument{
			Path:     rel,
			Kind:     e.Kind.String(),
			Target:   e.Target,
			Source:   e.Source,
			Priority: e.Priority,
		})
	}
	return doc
}

// RenderPlan writes p in the given format. FormatAuto is treated as text.
func RenderPlan(w io.Writer, p *plan.Plan, format Format) error {
	doc := NewPlanDocument(p)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatTerminal:
		return renderPlanTable(w, doc)
	default:
		return renderPlanText(w, doc)
	}
}

func renderPlanText(w io.Writer, doc PlanDocument) error {
	for _, e := range doc.Entries {
		var err error
		if e.Kind == plan.Leaf.String() {
			_, err = fmt.Fprintf(w, "%-9s %s -> %s (priority %d)\n", e.Kind, e.Path, e.Target, e.Priority)
		} else {
			_, err = fmt.Fprintf(w, "%-9s %s\n", e.Kind, e.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func renderPlanTable(w io.Writer, doc PlanDocument) error {
	data := pterm.TableData{{"Path", "Kind", "Target", "Priority"}}
	for _, e := range doc.Entries {
		target := ""
		if e.Kind == plan.Leaf.String() {
			target = styles.Render("FilePath", e.Target)
		}
		data = append(data, []string{
			e.Path,
			e.Kind,
			target,
			strconv.Itoa(e.Priority),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// RenderWarnings writes one "warning: " line per warning. Structured
// formats get plain lines too since warnings go to stderr.
func RenderWarnings(w io.Writer, warnings []types.Warning, format Format) {
	prefix := "warning:"
	if format == FormatTerminal {
		prefix = styles.Render("Warning", prefix)
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s\n", prefix, warning.String())
	}
}

// RenderError writes "Error: <message>" for err
func RenderError(w io.Writer, err error, format Format) {
	if err == nil {
		return
	}
	prefix := "Error:"
	if format == FormatTerminal {
		prefix = styles.Render("Error", prefix)
	}
	fmt.Fprintf(w, "%s %s\n", prefix, ErrorMessage(err))
}

// ErrorMessage returns the human message of err without its code
func ErrorMessage(err error) string {
	var buildErr *berrors.BuildError
	if errors.As(err, &buildErr) {
		if buildErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", buildErr.Message, buildErr.Wrapped)
		}
		return buildErr.Message
	}
	return err.Error()
}

// RenderSummary writes the final line of a build
func RenderSummary(w io.Writer, links int, dryRun bool, format Format) {
	msg := fmt.Sprintf("created %d symlinks in user environment", links)
	if dryRun {
		msg = fmt.Sprintf("would create %d symlinks in user environment", links)
	}
	if format == FormatTerminal {
		msg = styles.Render("Success", msg)
	}
	fmt.Fprintln(w, msg)
}
