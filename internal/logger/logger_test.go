// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		Level:   logrus.DebugLevel,
		Message: "schema model mutated",
		Data:    logrus.Fields{"pointer": "#/properties/a", "op": "addField"},
	}

	out, err := (&Formatter{DisableColor: true}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 12:30:00 [DEBUG] schema model mutated op=addField pointer=#/properties/a\n", string(out))

	entry.Buffer = nil
	out, err = (&Formatter{HideLogTime: true}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "\033[37m[DEBUG] schema model mutated op=addField pointer=#/properties/a\033[0m\n", string(out))
}

func TestInit(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	defer logrus.SetLevel(logrus.GetLevel())

	var buf bytes.Buffer
	Init(LogOptions{Verbose: true, DisableColor: true, HideLogTime: true, Output: &buf})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("op", "moveNode").Debug("moved")
	assert.Equal(t, "[DEBUG] moved op=moveNode\n", buf.String())

	Init(LogOptions{Output: &buf})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
