// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/autocrud/pkg/core"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto  Mode = "auto"
	ModeTable Mode = "table"
	ModeJSON  Mode = "json"
	ModeYAML  Mode = "yaml"
)

// Renderer writes command results in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. ModeAuto resolves to table on a terminal
// and JSON otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

// EffectiveMode resolves ModeAuto against the output writer.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeTable
	}
	return ModeJSON
}

// Record renders a single record.
func (r *Renderer) Record(rec *core.Record) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.json(rec)
	case ModeYAML:
		return r.yaml(recordYAML(rec))
	default:
		return r.recordTable([]*core.Record{rec}, false)
	}
}

// Records renders a list of records.
func (r *Renderer) Records(recs []*core.Record) error {
	if recs == nil {
		recs = []*core.Record{}
	}
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.json(recs)
	case ModeYAML:
		nodes := make([]*yaml.Node, 0, len(recs))
		for _, rec := range recs {
			nodes = append(nodes, recordYAML(rec))
		}
		return r.yaml(&yaml.Node{Kind: yaml.SequenceNode, Content: nodes})
	default:
		return r.recordTable(recs, true)
	}
}

// Columns renders a table description.
func (r *Renderer) Columns(cols []core.Column) error {
	rows := cols
	if rows == nil {
		rows = []core.Column{}
	}

	switch r.EffectiveMode() {
	case ModeJSON:
		return r.json(rows)
	case ModeYAML:
		return r.yaml(rows)
	}

	t := r.table()
	t.AppendHeader(table.Row{"#", "Column", "Type", "Nullable", "PK"})
	for _, c := range rows {
		t.AppendRow(table.Row{c.Position, c.Name, c.Type, c.Nullable, c.PrimaryKey})
	}
	t.Render()
	return nil
}

// Result renders a key/value result such as {"deleted": true}.
func (r *Renderer) Result(key string, value any) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.json(map[string]any{key: value})
	case ModeYAML:
		return r.yaml(map[string]any{key: value})
	}
	_, err := fmt.Fprintf(r.out, "%s: %v\n", key, value)
	return err
}

// Message prints a status line. Structured modes wrap it as {"message": ...}.
func (r *Renderer) Message(msg string) error {
	return r.Result("message", msg)
}

// Println writes a raw line to the output, regardless of mode.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Warn writes a line to the error stream.
func (r *Renderer) Warn(s string) {
	_, _ = fmt.Fprintln(r.errOut, s)
}

func (r *Renderer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (r *Renderer) recordTable(recs []*core.Record, footer bool) error {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return nil
	}

	// Column order follows first appearance across all records.
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range recs {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}

	t := r.table()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, rec := range recs {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			v, ok := rec.Get(c)
			if !ok {
				row[i] = ""
				continue
			}
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}
	t.Render()

	if footer {
		_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(recs))
	}
	return nil
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// FormatValue renders a field value for a table cell.
func FormatValue(v core.FieldValue) string {
	switch x := v.(type) {
	case core.Null, nil:
		return "NULL"
	case core.String:
		return string(x)
	case core.Object:
		return string(x)
	case core.Timestamp:
		return x.Time().Format("2006-01-02 15:04:05Z07:00")
	case core.Number:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(float64(x))
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// recordYAML builds a mapping node so YAML output keeps record key order.
func recordYAML(rec *core.Record) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			valueYAML(v),
		)
	}
	return node
}

func valueYAML(v core.FieldValue) *yaml.Node {
	switch x := v.(type) {
	case core.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}
	case core.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(bool(x))}
	case core.Number:
		b, _ := json.Marshal(x)
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(b)}
	case core.Timestamp:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: x.Time().Format("2006-01-02T15:04:05.999999999Z07:00")}
	case core.Object:
		var n yaml.Node
		// JSON is valid YAML flow syntax.
		if err := yaml.Unmarshal([]byte(x), &n); err == nil && len(n.Content) == 1 {
			return n.Content[0]
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: "null"}
	}
}
