// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dacolabs/datamodel-go/internal/config"
	"github.com/dacolabs/datamodel-go/internal/logger"
	"github.com/dacolabs/datamodel-go/internal/store"
	"github.com/dacolabs/datamodel-go/schemamodel"
)

type rootOpts struct {
	file    string
	cfgFile string
	cfg     *config.Config
}

var longRootCmdDescription = `datamodel edits a JSON Schema document as a tree of fields,
combinations and references. Every change is validated and written back
to the schema file.
`

// NewRootCmd returns the datamodel command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOpts{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "datamodel",
		Short:         "Inspect and edit JSON Schema data models",
		Long:          longRootCmdDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, opts.cfgFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logger.Init(logger.LogOptions{
				Verbose:      cfg.Debug,
				DisableColor: cfg.NoColor,
				Output:       cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "schema.json", "schema document to operate on")
	flags.StringVar(&opts.cfgFile, "config", "", "config file (json or yaml)")
	flags.BoolP("debug", "d", false, "turn on debug logging")
	flags.Bool("no-color", false, "disable colored log output")
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("no-color", flags.Lookup("no-color"))

	rootCmd.AddCommand(
		newShowCmd(opts),
		newNodesCmd(opts),
		newValidateCmd(opts),
	)
	rootCmd.AddCommand(newEditCmds(opts)...)
	rootCmd.DisableAutoGenTag = true
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.Errorf("datamodel: %v", err)
		os.Exit(1)
	}
}

func (o *rootOpts) store() *store.FileStore {
	return store.New(o.file, o.cfg, logrus.StandardLogger())
}

func (o *rootOpts) load() (*schemamodel.SchemaModel, error) {
	return o.store().LoadModel()
}

// edit loads the model, runs fn on a savable view of it and reports a
// failed save.
func (o *rootOpts) edit(fn func(*schemamodel.SavableSchemaModel) error) error {
	st := o.store()
	m, err := st.LoadModel()
	if err != nil {
		return err
	}
	if err := fn(schemamodel.NewSavable(m, st.SaveFunc(), logrus.StandardLogger())); err != nil {
		return err
	}
	return st.Err()
}

// resolvePointer accepts a schema pointer or a unique pointer.
func resolvePointer(m *schemamodel.SchemaModel, p string) (string, error) {
	if schemamodel.IsUniquePointer(p) {
		return m.SchemaPointerByUniquePointer(p)
	}
	if !m.HasNode(p) {
		return "", errors.Wrapf(schemamodel.ErrNotFound, "%s", p)
	}
	return p, nil
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Errorf("%q is not a boolean", s)
	}
	return b, nil
}
