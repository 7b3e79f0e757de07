/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package nemesis

// HackOptions enables targeted fixes for common field-naming mistakes
// seen in real-world Nemesis patches.
type HackOptions struct {
	// CastRagdollEvent substitutes "event" with "contactEvent" and
	// "anotherBoneIndex" with "bones" in field-name tokens while decoding.
	CastRagdollEvent bool
}

var castRagdollRenames = map[string]string{
	"event":            "contactEvent",
	"anotherBoneIndex": "bones",
}

// applyHackRename rewrites field tok per HackOptions, or returns tok
// unchanged when no hack applies.
func applyHackRename(opts HackOptions, tok string) string {
	if !opts.CastRagdollEvent {
		return tok
	}
	if renamed, ok := castRagdollRenames[tok]; ok {
		return renamed
	}
	return tok
}
