package main

import (
	"github.com/spf13/cobra"

	"github.com/arturoeanton/xmledit/internal/batch"
	"github.com/arturoeanton/xmledit/internal/xlog"
	xmlmodel "github.com/arturoeanton/xmledit/xml"
)

func newEditCmd(logCfg *xlog.Config) *cobra.Command {
	var (
		configPath string
		write      bool
	)

	cmd := &cobra.Command{
		Use:   "edit <file> --config=<batch.yaml>",
		Short: "Apply a batch of edit operations described in a YAML config",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			configData, err := readInput(configPath)
			if err != nil {
				return err
			}
			batchCfg, err := batch.Parse(configData)
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

			serCfg := batchCfg.SerializerOptions(xmlmodel.DefaultConfig())
			ed := xmlmodel.NewEditor(serCfg)

			if err := batch.Apply(doc, ed, batchCfg.Operations); err != nil {
				return err
			}
			logger.Info("applied batch edit", "file", args[0], "operations", len(batchCfg.Operations))

			out, err := xmlmodel.Serialize(doc, serCfg)
			if err != nil {
				return err
			}
			return writeOutput(args[0], write, []byte(out))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the batch-edit YAML config ('-' for stdin)")
	cmd.Flags().BoolVar(&write, "write", false, "write the result back to the input file instead of stdout")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
