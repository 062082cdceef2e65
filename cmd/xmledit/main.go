// Command xmledit is a CLI over the xmledit document model: format, query,
// and batch-edit XML files while preserving everything an edit doesn't
// touch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/xmledit/internal/xlog"
)

func main() {
	logCfg := xlog.NewConfig()

	root := &cobra.Command{
		Use:           "xmledit",
		Short:         "Lossless, editing-oriented XML toolkit",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	logCfg.RegisterFlags(root.PersistentFlags())
	if err := logCfg.RegisterCompletions(root); err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	root.AddCommand(newFmtCmd(logCfg))
	root.AddCommand(newQueryCmd(logCfg))
	root.AddCommand(newEditCmd(logCfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
