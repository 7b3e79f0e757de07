/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package nemesis

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

var (
	hkobjectOpenRe  = regexp.MustCompile(`<hkobject\s+name="([^"]+)"`)
	hkobjectCloseRe = regexp.MustCompile(`^\s*</hkobject>\s*$`)
	hkparamOpenRe   = regexp.MustCompile(`<hkparam\s+name="([^"]+)"(?:\s+numelements="(\d+)")?`)
	hkparamCloseRe  = regexp.MustCompile(`^\s*</hkparam>\s*$`)
)

// frame tracks one nesting level of the template's hkobject/hkparam tags
// while scanning, so a triple encountered between tags can be addressed
// by the path it sits under.
type frame struct {
	token       string
	isArray     bool
	elementSeen int // lines of array content observed so far in this hkparam
}

// Decoder turns one Nemesis-patch text stream into a slice of prioritized
// patch operations against the template it targets.
type Decoder struct {
	Priority int
	Hack     HackOptions
}

// Decode reads r (one Nemesis `.txt` patch file's content) and returns the
// patches it encodes. Context lines (ordinary hkobject/hkparam/content
// lines outside any OPEN/ORIGINAL/CLOSE triple) are tracked only to
// maintain the path stack; they never themselves produce patches.
func (d Decoder) Decode(r io.Reader) ([]patchop.PrioritizedPatch, error) {
	var stack []frame
	var out []patchop.PrioritizedPatch

	onContext := func(line string) error {
		trimmed := strings.TrimSpace(line)
		switch {
		case hkobjectOpenRe.MatchString(line):
			m := hkobjectOpenRe.FindStringSubmatch(line)
			tok, err := pointerToken(m[1])
			if err != nil {
				return err
			}
			stack = append(stack, frame{token: tok})
		case hkobjectCloseRe.MatchString(trimmed):
			if len(stack) == 0 || stack[len(stack)-1].isArray {
				return fmt.Errorf("nemesis: unmatched </hkobject>")
			}
			stack = stack[:len(stack)-1]
		case hkparamOpenRe.MatchString(line):
			m := hkparamOpenRe.FindStringSubmatch(line)
			field := applyHackRename(d.Hack, m[1])
			fr := frame{token: field}
			if m[2] != "" {
				fr.isArray = true
			}
			stack = append(stack, fr)
		case hkparamCloseRe.MatchString(trimmed):
			if len(stack) == 0 {
				return fmt.Errorf("nemesis: unmatched </hkparam>")
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) > 0 && stack[len(stack)-1].isArray {
				stack[len(stack)-1].elementSeen++
			}
		}
		return nil
	}

	onTriple := func(t Triple) error {
		path, elementIndex, isArrayField := currentPath(stack)
		p, err := buildPatch(path, elementIndex, isArrayField, t)
		if err != nil {
			return fmt.Errorf("nemesis: triple %d: %w", t.ID, err)
		}
		out = append(out, patchop.PrioritizedPatch{Patch: p, Priority: d.Priority})
		return nil
	}

	if err := ScanTriples(r, onContext, onTriple); err != nil {
		return nil, err
	}
	return out, nil
}

// inferScalar turns one trimmed content line from a triple into a typed
// patchtree leaf, the way the upstream Nemesis XML reader resolves a
// field's JSON type from its raw text before a patch ever reaches the
// apply layer. Integers and floats are tried before a literal
// true/false, and anything else is kept as a string.
func inferScalar(s string) patchtree.Node {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return patchtree.I64(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return patchtree.F64(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return patchtree.Bool(true)
	case "false":
		return patchtree.Bool(false)
	}
	return patchtree.Str(s)
}

func pointerToken(nameAttr string) (string, error) {
	p, ok := ParsePointer(nameAttr)
	if !ok {
		return "", fmt.Errorf("nemesis: malformed pointer %q", nameAttr)
	}
	return "#" + p.Raw, nil
}

func currentPath(stack []frame) (path patchtree.Path, elementIndex int, isArrayField bool) {
	for _, fr := range stack {
		path = append(path, fr.token)
	}
	if len(stack) > 0 && stack[len(stack)-1].isArray {
		isArrayField = true
		elementIndex = stack[len(stack)-1].elementSeen
	}
	return path, elementIndex, isArrayField
}

// buildPatch turns one scanned triple plus the path context it occurred
// under into a single patchop.Patch. Array-field triples become Seq
// patches addressing the element range the triple's old content spanned;
// scalar-field triples become Pure patches on the whole field: Replace
// when both blocks have content, Add when the ORIGINAL block is empty, and
// Remove when there is no new content.
func buildPatch(path patchtree.Path, elementIndex int, isArrayField bool, t Triple) (patchop.Patch, error) {
	if !isArrayField {
		var value patchtree.Node
		switch {
		case len(t.NewLines) == 0:
			value = patchtree.Null()
		case len(t.NewLines) == 1:
			value = inferScalar(strings.TrimSpace(t.NewLines[0]))
		default:
			value = patchtree.Str(strings.TrimSpace(strings.Join(t.NewLines, "\n")))
		}
		kind := patchop.OpReplace
		switch {
		case !t.HadOriginal && len(t.NewLines) == 0:
			// OPEN closed with no ORIGINAL and no new content: there is
			// nothing to add and nothing captured to replace, so this
			// triple means "remove the field" rather than "add nothing".
			kind = patchop.OpRemove
		case len(t.OldLines) == 0:
			kind = patchop.OpAdd
		case len(t.NewLines) == 0:
			kind = patchop.OpRemove
		}
		return patchop.Patch{
			Shape: patchop.ShapePure,
			Path:  path,
			Op:    patchop.Op{Kind: kind, Value: value},
		}, nil
	}

	oldLen := len(t.OldLines)
	newVals := make([]patchtree.Node, len(t.NewLines))
	for i, l := range t.NewLines {
		newVals[i] = inferScalar(strings.TrimSpace(l))
	}

	switch {
	case oldLen == 0:
		// pure insertion at elementIndex
		return patchop.Patch{
			Shape: patchop.ShapeSeq,
			Path:  path,
			Op:    patchop.Op{Kind: patchop.OpAdd, Value: patchtree.Array(newVals)},
			Range: patchtree.Range{Kind: patchtree.RangeIndex, Start: elementIndex},
		}, nil
	case len(t.NewLines) == 0:
		return patchop.Patch{
			Shape: patchop.ShapeSeq,
			Path:  path,
			Op:    patchop.Op{Kind: patchop.OpRemove},
			Range: patchtree.Range{Kind: patchtree.RangeFromTo, Start: elementIndex, End: elementIndex + oldLen},
		}, nil
	default:
		return patchop.Patch{
			Shape: patchop.ShapeSeq,
			Path:  path,
			Op:    patchop.Op{Kind: patchop.OpReplace, Value: patchtree.Array(newVals)},
			Range: patchtree.Range{Kind: patchtree.RangeFromTo, Start: elementIndex, End: elementIndex + oldLen},
		}, nil
	}
}
