/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package nemesis

import (
	"regexp"
)

// PointerKind tags whether an hkobject name attribute is a resolved
// numeric index or a Nemesis-assigned variable placeholder.
type PointerKind int

const (
	PointerIndex PointerKind = iota
	PointerVar
)

// Pointer is a decoded `name="#..."` attribute: either `#0001` (an index
// into the template's object table) or `#$id$2` (a variable Nemesis
// substitutes once all mods contributing new objects have been counted).
type Pointer struct {
	Kind PointerKind
	Raw  string // digits for Index, the "$id$2" payload for Var
}

var pointerRe = regexp.MustCompile(`^#(\d+|\$[^"]+)$`)

// ParsePointer parses a bare `#0001` / `#$id$2` token (without quotes).
func ParsePointer(tok string) (Pointer, bool) {
	m := pointerRe.FindStringSubmatch(tok)
	if m == nil {
		return Pointer{}, false
	}
	if m[1][0] == '$' {
		return Pointer{Kind: PointerVar, Raw: m[1]}, true
	}
	return Pointer{Kind: PointerIndex, Raw: m[1]}, true
}

// eventVarRe and variableVarRe recognize Nemesis's two built-in
// placeholder families, $eventID[...]$ and $variableID[...]$, which are
// never resolved by this decoder — they are emitted into patch values
// verbatim and resolved later by a consumer that has the template's event
// and variable tables loaded.
var (
	eventVarRe    = regexp.MustCompile(`\$eventID\[[^\]]*\]\$`)
	variableVarRe = regexp.MustCompile(`\$variableID\[[^\]]*\]\$`)
)

// ContainsNemesisVariable reports whether s embeds an unresolved
// $eventID[...]$ or $variableID[...]$ placeholder.
func ContainsNemesisVariable(s string) bool {
	return eventVarRe.MatchString(s) || variableVarRe.MatchString(s)
}
