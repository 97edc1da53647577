package main

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ukaji3/gradesheet-go/pkg/gradesheet/inspect"
)

func newInspectCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "Print the cells, merges, links and print areas of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := inspect.Open(args[0])
			if err != nil {
				return err
			}

			json := jsoniter.ConfigCompatibleWithStandardLibrary
			var data []byte
			if pretty {
				data, err = json.MarshalIndent(report, "", "  ")
			} else {
				data, err = json.Marshal(report)
			}
			if err != nil {
				return errors.Wrap(err, "encode report")
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
