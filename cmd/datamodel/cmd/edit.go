// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/dacolabs/datamodel-go/schemamodel"
)

// An editFunc runs one mutation. pointer is the resolved first argument.
type editFunc func(out io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error

// newEditCmd returns a command whose first argument is a node pointer and
// whose remaining args are passed to fn.
func newEditCmd(opts *rootOpts, use, short string, nargs cobra.PositionalArgs, fn editFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.edit(func(m *schemamodel.SavableSchemaModel) error {
				pointer, err := resolvePointer(m.SchemaModel, args[0])
				if err != nil {
					return err
				}
				return fn(cmd.OutOrStdout(), m, pointer, args[1:])
			})
		},
	}
}

func printPointer(out io.Writer, n schemamodel.UiSchemaNode, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, n.Pointer())
	return err
}

// position maps an index among the visible children of parent to a
// NodePosition.
func position(m *schemamodel.SchemaModel, parent string, index int) schemamodel.NodePosition {
	return schemamodel.NodePosition{ParentPointer: parent, Index: m.FullListIndex(parent, index)}
}

// definitionPointer accepts either a definition name or its pointer.
func definitionPointer(s string) string {
	if strings.HasPrefix(s, "#") {
		return s
	}
	return schemamodel.ChildPointer(schemamodel.RootPointer, false, schemamodel.KeywordDefinitions, s)
}

// parseValue decodes a command line value as YAML, so that 3 is a number,
// true a boolean, null a nil and [a, b] a list.
func parseValue(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, errors.Wrapf(err, "invalid value %q", s)
	}
	return v, nil
}

func newEditCmds(opts *rootOpts) []*cobra.Command {
	var (
		fieldType = string(schemamodel.FieldTypeString)
		typeType  = string(schemamodel.FieldTypeObject)
		kind      = string(schemamodel.AnyOf)
		index     = -1
	)

	addField := newEditCmd(opts, "add-field PARENT [NAME]", "add a field under PARENT", cobra.RangeArgs(1, 2),
		func(out io.Writer, m *schemamodel.SavableSchemaModel, parent string, args []string) error {
			n, err := m.AddField(strings.Join(args, ""), schemamodel.FieldType(fieldType), position(m.SchemaModel, parent, index))
			return printPointer(out, n, err)
		})
	addField.Flags().StringVarP(&fieldType, "type", "t", fieldType, "field type")
	addField.Flags().IntVarP(&index, "index", "i", index, "position among the visible children, -1 appends")

	addCombination := newEditCmd(opts, "add-combination PARENT [NAME]", "add an allOf, anyOf or oneOf node under PARENT", cobra.RangeArgs(1, 2),
		func(out io.Writer, m *schemamodel.SavableSchemaModel, parent string, args []string) error {
			n, err := m.AddCombination(strings.Join(args, ""), schemamodel.CombinationKind(kind), position(m.SchemaModel, parent, index))
			return printPointer(out, n, err)
		})
	addCombination.Flags().StringVarP(&kind, "kind", "k", kind, "combinator keyword")
	addCombination.Flags().IntVarP(&index, "index", "i", index, "position among the visible children, -1 appends")

	addRef := newEditCmd(opts, "add-ref PARENT NAME DEFINITION", "add a reference to DEFINITION under PARENT", cobra.ExactArgs(3),
		func(out io.Writer, m *schemamodel.SavableSchemaModel, parent string, args []string) error {
			n, err := m.AddReference(args[0], definitionPointer(args[1]), position(m.SchemaModel, parent, index))
			return printPointer(out, n, err)
		})
	addRef.Flags().IntVarP(&index, "index", "i", index, "position among the visible children, -1 appends")

	addType := &cobra.Command{
		Use:   "add-type NAME",
		Short: "add a definition under $defs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.edit(func(m *schemamodel.SavableSchemaModel) error {
				n, err := m.AddType(args[0], schemamodel.NewFieldNode(schemamodel.FieldType(typeType)))
				return printPointer(cmd.OutOrStdout(), n, err)
			})
		},
	}
	addType.Flags().StringVarP(&typeType, "type", "t", typeType, "field type of the definition")

	move := newEditCmd(opts, "move POINTER PARENT", "move a node under PARENT", cobra.ExactArgs(2),
		func(out io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
			parent, err := resolvePointer(m.SchemaModel, args[0])
			if err != nil {
				return err
			}
			n, err := m.MoveNode(pointer, position(m.SchemaModel, parent, index))
			return printPointer(out, n, err)
		})
	move.Flags().IntVarP(&index, "index", "i", index, "position among the visible children, -1 appends")

	return []*cobra.Command{
		addField,
		addCombination,
		addRef,
		addType,
		move,
		newEditCmd(opts, "add-item POINTER", "add a null item to a combination", cobra.ExactArgs(1),
			func(out io.Writer, m *schemamodel.SavableSchemaModel, pointer string, _ []string) error {
				n, err := m.AddCombinationItem(pointer)
				return printPointer(out, n, err)
			}),
		newEditCmd(opts, "delete POINTER", "delete a node and its subtree", cobra.ExactArgs(1),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, _ []string) error {
				return m.DeleteNode(pointer)
			}),
		newEditCmd(opts, "rename POINTER NAME", "rename a property or definition", cobra.ExactArgs(2),
			func(out io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				n, err := m.SetPropertyName(pointer, args[0], nil)
				return printPointer(out, n, err)
			}),
		newEditCmd(opts, "convert POINTER", "move a node into $defs and leave a reference in its place", cobra.ExactArgs(1),
			func(out io.Writer, m *schemamodel.SavableSchemaModel, pointer string, _ []string) error {
				n, err := m.ConvertToDefinition(pointer)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, n.Reference)
				return err
			}),
		newEditCmd(opts, "toggle-array POINTER", "turn a node into a list of itself or back", cobra.ExactArgs(1),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, _ []string) error {
				_, err := m.ToggleArrayField(pointer)
				return err
			}),
		newEditCmd(opts, "set-required POINTER true|false", "mark a property as required or optional", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				b, err := parseBool(args[0])
				if err != nil {
					return err
				}
				return m.SetRequired(pointer, b)
			}),
		newEditCmd(opts, "set-nillable POINTER true|false", "allow or forbid null", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				b, err := parseBool(args[0])
				if err != nil {
					return err
				}
				return m.SetNillable(pointer, b)
			}),
		newEditCmd(opts, "set-title POINTER TITLE", "set the title of a node", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				return m.SetTitle(pointer, args[0])
			}),
		newEditCmd(opts, "set-description POINTER DESCRIPTION", "set the description of a node", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				return m.SetDescription(pointer, args[0])
			}),
		newEditCmd(opts, "set-type POINTER TYPE", "change the type of a field", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				return m.SetType(pointer, schemamodel.FieldType(args[0]))
			}),
		newEditCmd(opts, "set-ref POINTER DEFINITION", "point a reference at another definition", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				return m.SetRef(pointer, definitionPointer(args[0]))
			}),
		newEditCmd(opts, "set-combination POINTER KIND", "change the combinator of a combination", cobra.ExactArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				return m.SetCombinationType(pointer, schemamodel.CombinationKind(args[0]))
			}),
		newEditCmd(opts, "set-restriction POINTER KEYWORD=VALUE...", "set restrictions, a null value removes one", cobra.MinimumNArgs(2),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				restrictions := map[string]any{}
				for _, arg := range args {
					k, raw, ok := strings.Cut(arg, "=")
					if !ok || k == "" {
						return errors.Errorf("restriction %q is not KEYWORD=VALUE", arg)
					}
					v, err := parseValue(raw)
					if err != nil {
						return err
					}
					restrictions[k] = v
				}
				return m.SetRestrictions(pointer, restrictions)
			}),
		newEditCmd(opts, "set-enum POINTER VALUE...", "replace the allowed values of a field, no values clears them", cobra.MinimumNArgs(1),
			func(_ io.Writer, m *schemamodel.SavableSchemaModel, pointer string, args []string) error {
				var values []any
				for _, raw := range args {
					v, err := parseValue(raw)
					if err != nil {
						return err
					}
					values = append(values, v)
				}
				return m.SetEnum(pointer, values)
			}),
	}
}
