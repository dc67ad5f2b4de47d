package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/resumemd/internal/export"
	"github.com/dgallion1/resumemd/internal/parser"
	"github.com/dgallion1/resumemd/internal/render"
)

func newParseCmd() *cobra.Command {
	var indent bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed résumé as JSON",
		Long:  "Print the parsed résumé as JSON. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "-" {
				name = "stdin.md"
			}
			p, err := parser.ForFile(name)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := p.Parse(bytes.NewReader(raw), name)
			if err != nil {
				return err
			}
			getApp(cmd).log.Debug("parsed resume", "file", name, "sections", len(doc.Sections), "items", doc.ItemCount())

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(doc)
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render Markdown to sanitized HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			r := render.New(getApp(cmd).cfg.Render)
			var out string
			if inline {
				out, err = r.Inline(string(raw))
			} else {
				out, err = r.Block(string(raw))
			}
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "render as an inline fragment without block elements")
	return cmd
}

func newShowCmd() *cobra.Command {
	var (
		style string
		width int
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display the résumé in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := render.Terminal(string(raw), style, width)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style: dark, light, notty, dracula, ...")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the résumé as a Word document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd)
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				if args[0] == "-" {
					return fmt.Errorf("--output is required when reading stdin")
				}
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".docx"
			}

			var buf bytes.Buffer
			if err := export.DOCX(&buf, parser.Parse(string(raw)), render.New(a.cfg.Render)); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.log.Info("exported resume", "output", output, "bytes", buf.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input name with .docx)")
	return cmd
}
