package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrCancelled reports a declined clear confirmation. Callers treat it
// as a clean abort: nothing has been written or deleted.
var ErrCancelled = errors.New("cancelled")

const indexTemplate = `{{ .Title }}
{{ underline .Title }}

This page documents the available schemas.

.. toctree::
   :maxdepth: 1
   :caption: Schemas:

{{ range .Names }}   {{ . }}
{{ end }}`

// OutputSettings controls where and how schema documentation is written.
type OutputSettings struct {
	Folder  string // output directory
	NameFmt string // output filename format, %s substitutes the schema key
	Clear   bool   // clear Folder before writing
	Force   bool   // clear without confirmation
	Index   bool   // write index.rst listing the outputs
	Title   string // index page title
	// Confirm decides whether a populated Folder may be cleared. nil
	// confirms unconditionally, for non-interactive use.
	Confirm func(prompt string) (bool, error)
}

// Filename formats an output filename from the CLI format and a schema
// key: Filename("%s.md", "widget") returns "widget.md".
func Filename(format string, key string) string {
	return fmt.Sprintf(format, key)
}

// Run resolves tokens against the registry and writes one Markdown file
// per output entry, plus the optional index. Tokens default to "all".
// Any failure aborts the run; there is no partial-success mode.
func Run(settings OutputSettings, registry *Registry, tokens []string) error {
	if len(tokens) == 0 {
		tokens = []string{"all"}
	}
	schemaSet, requested, err := BuildSchemaSet(registry, tokens)
	if err != nil {
		return err
	}
	slog.Info("generating schemas", "keys", strings.Join(requested, ", "))

	if settings.Clear {
		if err := clearFolder(settings.Folder, settings.Force, settings.Confirm); err != nil {
			return err
		}
	} else if err := os.MkdirAll(settings.Folder, 0o755); err != nil {
		return err
	}

	outNames := make([]string, 0, len(schemaSet.Names()))
	for _, name := range schemaSet.Names() {
		outName := Filename(settings.NameFmt, name)
		outNames = append(outNames, outName)
		outPath := filepath.Join(settings.Folder, outName)
		slog.Debug("generating schema", "name", name, "path", outPath)

		blocks := make([]string, 0, len(schemaSet.Entry(name)))
		for _, key := range schemaSet.Entry(name) {
			markdown, err := Render(registry, key, "")
			if err != nil {
				return err
			}
			blocks = append(blocks, strings.TrimSpace(markdown))
		}
		content := strings.Join(blocks, "\n\n") + "\n"
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return err
		}
	}

	if settings.Index {
		if err := writeIndex(settings.Folder, settings.Title, outNames); err != nil {
			return err
		}
	}
	slog.Info("done with schemas")
	return nil
}

// clearFolder removes folder and recreates it empty. A missing folder is
// created. The current working directory is never cleared; that case
// logs a warning and leaves the folder alone.
func clearFolder(folder string, force bool, confirm func(string) (bool, error)) error {
	info, err := os.Stat(folder)
	if os.IsNotExist(err) {
		return os.MkdirAll(folder, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folder)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if same, err := sameFile(folder, cwd); err != nil {
		return err
	} else if same {
		slog.Warn("cannot clear folder as this is current working directory", "folder", folder)
		return nil
	}
	if !force && confirm != nil {
		prompt := fmt.Sprintf("Running this will clear %s, are you sure you want to continue? [y/N] ", folder)
		ok, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCancelled
		}
	}
	slog.Debug("deleting folder", "folder", folder)
	if err := os.RemoveAll(folder); err != nil {
		return err
	}
	return os.MkdirAll(folder, 0o755)
}

func sameFile(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}

// writeIndex writes index.rst with a toctree over the output base names.
func writeIndex(folder string, title string, outNames []string) error {
	path := filepath.Join(folder, "index.rst")
	slog.Debug("writing index", "path", path)
	tmpl, err := template.New("index").Funcs(template.FuncMap{
		"underline": func(s string) string { return strings.Repeat("=", len(s)) },
	}).Parse(indexTemplate)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(outNames))
	for _, outName := range outNames {
		names = append(names, strings.TrimSuffix(outName, filepath.Ext(outName)))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, struct {
		Title string
		Names []string
	}{Title: title, Names: names})
}
