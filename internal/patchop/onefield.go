/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchop

import (
	"fmt"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// ApplyPure applies one Pure(op) patch directly against root at path. Add
// creates missing intermediate objects and grows existing arrays with Null
// placeholders on its way to path (patchtree.Add); Replace requires every intermediate segment to already
// exist and type-checks a scalar overwrite against the field's current
// kind (patchtree.Replace); Remove deletes the field.
func ApplyPure(root *patchtree.Node, path patchtree.Path, op Op) error {
	switch op.Kind {
	case OpAdd:
		return patchtree.Add(root, path, op.Value)
	case OpReplace:
		return patchtree.Replace(root, path, op.Value)
	case OpRemove:
		return patchtree.Remove(root, path)
	default:
		return fmt.Errorf("%w: op kind %d", patchtree.ErrInvalidTarget, op.Kind)
	}
}
