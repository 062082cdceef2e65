package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/xmledit/internal/batch"
	"github.com/arturoeanton/xmledit/internal/xlog"
	xmlmodel "github.com/arturoeanton/xmledit/xml"
)

func newQueryCmd(logCfg *xlog.Config) *cobra.Command {
	var attr string

	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Print an element's text or attribute by slash-separated child-name path",
		Long: `query walks a slash-separated path of element local names from the document
root (e.g. "config/servers/server[1]") and prints either the resolved
element's trimmed text content, or one of its attribute values with --attr.
This is a fixed-shape path walk over the node model, not an XPath engine.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			doc, err := xmlmodel.ParseBytes(data)
			if err != nil {
				return err
			}

			el, err := batch.Resolve(doc, args[1])
			if err != nil {
				return err
			}

			logger.Debug("resolved query path", "path", args[1])

			if attr != "" {
				v, ok := el.Attr(attr)
				if !ok {
					return fmt.Errorf("element %q has no attribute %q", el.Name.String(), attr)
				}
				fmt.Println(v)
				return nil
			}

			fmt.Println(el.TrimmedTextContent())
			return nil
		},
	}

	cmd.Flags().StringVar(&attr, "attr", "", "print this attribute's value instead of the element's text content")

	return cmd
}
