// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import "errors"

// Errors returned by rejected operations. Match them with errors.Is; the
// returned errors wrap these with the pointers involved.
// A rejected mutation leaves the model unchanged.
var (
	ErrNotFound          = errors.New("schema node not found")
	ErrNameCollision     = errors.New("name already in use")
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidParent     = errors.New("node cannot contain children")
	ErrInvalidReference  = errors.New("reference does not point at a definition")
	ErrDefinitionInUse   = errors.New("definition is referenced")
	ErrInvalidOperation  = errors.New("invalid operation")
)
