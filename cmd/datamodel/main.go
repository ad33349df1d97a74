// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command datamodel inspects and edits JSON Schema data models.
package main

import "github.com/dacolabs/datamodel-go/cmd/datamodel/cmd"

func main() {
	cmd.Execute()
}
