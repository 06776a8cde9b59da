// main allows you to build schema2md binary
// # schema2md
//
// Convert named JSON Schema definitions into markdown documentation.
//
// schema2md reads one or more schema locations (YAML or JSON files that
// map schema keys to schema values), picks the requested subset and
// writes one markdown file per output, plus an index.rst toctree.
//
// ## Usage
//
// `schema2md -L schemas.yaml` renders every schema in schemas.yaml into
// the schemas/ folder.
//
// Positional arguments select what gets rendered:
//
//   - `all` renders every schema to its own file.
//   - `base` renders the schema under key base.
//   - `report:a:b` writes schemas a and b consecutively into one file
//     named after report.
//   - `report:all` writes every schema into one file named after report.
//
// Keys that alias the same schema collapse to a single file, named after
// the alias declared last.
//
// ## Build binary
//
// `go build schema2md.go` will produce you schema2md binary.
package main
