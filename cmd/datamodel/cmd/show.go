// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/dacolabs/datamodel-go/schemamodel"
)

func newShowCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print the schema model as a tree",
		Long: `show prints the properties of the schema, then its definitions. Referenced
definitions are expanded in place. The first column is the unique pointer
other commands accept in place of a schema pointer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load()
			if err != nil {
				return err
			}
			return renderTree(cmd.OutOrStdout(), m)
		},
	}
}

func renderTree(out io.Writer, m *schemamodel.SchemaModel) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Pointer", "Name", "Type", "Required", "Array", "Nillable"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	var walk func(n schemamodel.UiSchemaNode, unique string, depth int) error
	walk = func(n schemamodel.UiSchemaNode, unique string, depth int) error {
		b := n.Base()
		table.Append([]string{
			unique,
			strings.Repeat("  ", depth) + schemamodel.NameOf(n.Pointer()),
			typeName(n),
			strconv.FormatBool(b.IsRequired),
			strconv.FormatBool(b.IsArray),
			strconv.FormatBool(b.IsNillable),
		})
		final, err := m.FinalNode(n.Pointer())
		if err != nil {
			return err
		}
		children, err := m.ChildNodes(final.Pointer())
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c, schemamodel.UniquePointer(c.Pointer(), unique), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range append(m.RootProperties(), m.Definitions()...) {
		if err := walk(n, schemamodel.UniquePointer(n.Pointer(), ""), 0); err != nil {
			return err
		}
	}
	table.Render()
	return nil
}

func typeName(n schemamodel.UiSchemaNode) string {
	switch n := n.(type) {
	case *schemamodel.FieldNode:
		return string(n.FieldType)
	case *schemamodel.CombinationNode:
		return string(n.CombinationType)
	case *schemamodel.ReferenceNode:
		return "$ref " + schemamodel.NameOf(n.Reference)
	}
	return ""
}

func newNodesCmd(opts *rootOpts) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "print the flat node list of the schema model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load()
			if err != nil {
				return err
			}
			data, err := schemamodel.MarshalNodes(m.AsArray())
			if err != nil {
				return err
			}
			switch output {
			case "yaml":
				if data, err = yaml.JSONToYAML(data); err != nil {
					return err
				}
			case "json":
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format, json or yaml")
	return cmd
}

func newValidateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "check the structural invariants of the schema model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load()
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d nodes, valid\n", opts.file, m.Len())
			return nil
		},
	}
}
