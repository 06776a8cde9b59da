package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jylitalo/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/schemadoc/schema2md/pkg"
)

// NewCommand returns the root command.
// Converts named schema definitions into Markdown documentation files.
// Supports `--version`.
func NewCommand(writer io.Writer, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schema2md [flags] [schema|name:schema...]...",
		Short:         "Convert schemas to markdown documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// parse flags
			if flag, _ := cmd.Flags().GetBool("version"); flag {
				_, _ = writer.Write([]byte(fmt.Sprintf("schema2md %s\n", version)))
				return nil
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)
			locations, _ := cmd.Flags().GetStringArray("location")
			if len(locations) == 0 {
				return errors.New("at least one --location is required")
			}
			paths, _ := cmd.Flags().GetStringArray("path")
			force, _ := cmd.Flags().GetBool("force")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// execute
			registry, err := pkg.LoadLocations(locations, paths)
			if err != nil {
				return err
			}
			settings := pkg.OutputSettings{
				Folder:  cfg.OutFolder,
				NameFmt: cfg.OutName,
				Clear:   cfg.Clear,
				Force:   force,
				Index:   cfg.Index,
				Title:   cfg.Header,
				Confirm: confirmer(writer, cmd.InOrStdin()),
			}
			if err := pkg.Run(settings, registry, args); err != nil {
				if errors.Is(err, pkg.ErrCancelled) {
					_, _ = writer.Write([]byte("Cancelling.\n"))
					return nil
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringArrayP("location", "L", nil, "path to a YAML/JSON file of schema key-value pairs (repeatable)")
	cmd.Flags().StringArrayP("path", "P", nil, "search paths for relative locations (repeatable)")
	cmd.Flags().Bool("clear", true, "clear folder before writing")
	cmd.Flags().Bool("index", true, "write index file with toctree to folder")
	cmd.Flags().String("header", "Schemas", "title of index file")
	cmd.Flags().StringP("out-name", "O", "%s.md", "format for naming output, substituting %s for schema key")
	cmd.Flags().StringP("out-folder", "o", "schemas", "folder to write formatted docs in")
	cmd.Flags().BoolP("force", "F", false, "force removal of output directory (if not CWD)")
	cmd.Flags().BoolP("verbose", "v", false, "print while generating schemas")
	cmd.Flags().BoolP("version", "V", false, "print schema2md version")
	return cmd
}

// setupLogging routes slog through tint on stderr, colored only on a
// terminal.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})))
}

// confirmer prompts on writer and reads a y/N answer from in. Only an
// explicit y confirms.
func confirmer(writer io.Writer, in io.Reader) func(string) (bool, error) {
	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		if _, err := io.WriteString(writer, prompt); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(line), "y"), nil
	}
}
