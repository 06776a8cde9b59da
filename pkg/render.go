package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/template"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const pageTemplate = `# {{ .Title }}
{{ if .Description }}
{{ trim .Description }}
{{ end }}{{ if .Type }}
**Type:** ` + "`{{ .Type }}`" + `
{{ end }}{{ if .Enum }}
**Allowed values:** {{ .Enum }}
{{ end }}{{ range .Tables }}
## {{ .Heading }}

{{ tableHead .Columns }}
{{- range .Rows }}
{{ tableRow . }}
{{- end }}
{{ end }}{{ range .Defs }}
## {{ .Title }}
{{ if .Description }}
{{ trim .Description }}
{{ end }}{{ if .Type }}
**Type:** ` + "`{{ .Type }}`" + `
{{ end }}{{ range .Tables }}
{{ tableHead .Columns }}
{{- range .Rows }}
{{ tableRow . }}
{{- end }}
{{ end }}{{ end }}`

type schemaPage struct {
	Title       string
	Description string
	Type        string
	Enum        string
	Tables      []propertyTable
	Defs        []schemaPage
}

type propertyTable struct {
	Heading string
	Columns []string
	Rows    [][]string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"trim":      strings.TrimSpace,
		"tableHead": tableHead,
		"tableRow":  tableRow,
	}
}

// Render resolves the registry value under key and produces its Markdown
// page. A non-empty name overrides the page title and output identity.
// The document must compile as a JSON Schema before it is rendered.
func Render(registry *Registry, key string, name string) (string, error) {
	if name == "" {
		name = key
	}
	schema, ok := registry.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSchemaNotFound, key)
	}
	doc, err := schema.document(name)
	if err != nil {
		return "", err
	}
	if err := compile(doc); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSchemaInvalid, key, err)
	}
	slog.Debug("rendering schema", "key", key, "name", name)

	page := buildPage(doc, name)
	tmpl, err := template.New("schema").Funcs(templateFuncs()).Parse(pageTemplate)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, page); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()) + "\n", nil
}

// compile rejects documents that are not valid JSON Schema. Draft
// 2020-12 applies when the document names no $schema.
func compile(doc Document) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return err
	}
	_, err = compiler.Compile("schema.json")
	return err
}

func buildPage(doc Document, title string) schemaPage {
	page := schemaPage{
		Title:       title,
		Description: stringField(doc, "description"),
		Type:        typeName(doc),
		Enum:        enumValues(doc),
	}
	if rows := propertyRows(doc); len(rows) > 0 {
		page.Tables = append(page.Tables, newPropertyTable("Properties", rows))
	}
	for _, field := range []string{"$defs", "definitions"} {
		defs, ok := doc[field].(map[string]any)
		if !ok {
			continue
		}
		for _, defName := range sortedKeys(defs) {
			def, ok := defs[defName].(map[string]any)
			if !ok {
				continue
			}
			sub := buildPage(Document(def), defName)
			sub.Defs = nil
			page.Defs = append(page.Defs, sub)
		}
	}
	return page
}

type propertyRow struct {
	name        string
	typeName    string
	required    string
	description string
	fallback    string
}

func propertyRows(doc Document) []propertyRow {
	properties, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}
	required := map[string]bool{}
	if list, ok := doc["required"].([]any); ok {
		for _, entry := range list {
			if name, ok := entry.(string); ok {
				required[name] = true
			}
		}
	}
	rows := make([]propertyRow, 0, len(properties))
	for _, name := range sortedKeys(properties) {
		property, _ := properties[name].(map[string]any)
		row := propertyRow{name: fmt.Sprintf("`%s`", name)}
		if property != nil {
			row.typeName = typeName(Document(property))
			row.description = strings.ReplaceAll(stringField(Document(property), "description"), "\n", " ")
			if value, ok := property["default"]; ok {
				row.fallback = literal(value)
			}
		}
		if required[name] {
			row.required = "yes"
		}
		rows = append(rows, row)
	}
	return rows
}

// newPropertyTable lays out the table, hiding columns that are empty on
// every row.
func newPropertyTable(heading string, rows []propertyRow) propertyTable {
	type column struct {
		header string
		value  func(propertyRow) string
	}
	all := []column{
		{"Property", func(r propertyRow) string { return r.name }},
		{"Type", func(r propertyRow) string { return r.typeName }},
		{"Required", func(r propertyRow) string { return r.required }},
		{"Default", func(r propertyRow) string { return r.fallback }},
		{"Description", func(r propertyRow) string { return r.description }},
	}
	var used []column
	for _, col := range all {
		for _, row := range rows {
			if col.value(row) != "" {
				used = append(used, col)
				break
			}
		}
	}
	table := propertyTable{Heading: heading}
	for _, col := range used {
		table.Columns = append(table.Columns, col.header)
	}
	for _, row := range rows {
		cells := make([]string, 0, len(used))
		for _, col := range used {
			cells = append(cells, col.value(row))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func tableHead(columns []string) string {
	separators := make([]string, len(columns))
	for i := range separators {
		separators[i] = "---"
	}
	return tableRow(columns) + "\n" + tableRow(separators)
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func typeName(doc Document) string {
	switch t := doc["type"].(type) {
	case string:
		if t == "array" {
			if items, ok := doc["items"].(map[string]any); ok {
				if item := typeName(Document(items)); item != "" {
					return "array of " + item
				}
			}
		}
		return t
	case []any:
		names := make([]string, 0, len(t))
		for _, entry := range t {
			if name, ok := entry.(string); ok {
				names = append(names, name)
			}
		}
		return strings.Join(names, " or ")
	}
	if ref, ok := doc["$ref"].(string); ok {
		return ref
	}
	return ""
}

func enumValues(doc Document) string {
	list, ok := doc["enum"].([]any)
	if !ok {
		if value, ok := doc["const"]; ok {
			return literal(value)
		}
		return ""
	}
	values := make([]string, 0, len(list))
	for _, entry := range list {
		values = append(values, literal(entry))
	}
	return strings.Join(values, ", ")
}

func literal(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("`%v`", value)
	}
	return fmt.Sprintf("`%s`", encoded)
}

func stringField(doc Document, field string) string {
	value, _ := doc[field].(string)
	return value
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
