package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypesCmd(flags *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered option types and legacy names",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute("types", flags, stdout, stderr, runTypes)
		},
	}
}

func runTypes(_ context.Context, env *environment) error {
	writer := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(writer, "TYPE\tPATH")

	for _, name := range env.registry.Names() {
		typ, err := env.registry.Resolve(name)
		if err != nil {
			return err
		}

		descriptor := typ.Descriptor()

		path := descriptor.SectionPath
		if descriptor.CollectionPath != "" {
			path = descriptor.CollectionPath + "[]"
		}

		fmt.Fprintf(writer, "%s\t%s\n", name, path)
	}

	renames := env.registry.Renames()
	legacy := make([]string, 0, len(renames))

	for name := range renames {
		legacy = append(legacy, name)
	}

	sort.Strings(legacy)

	if len(legacy) > 0 {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, "LEGACY NAME\tCURRENT NAME")

		for _, name := range legacy {
			fmt.Fprintf(writer, "%s\t%s\n", name, renames[name])
		}
	}

	return writer.Flush()
}
