/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package dmerge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ardikabs/d-merge/internal/collect"
	"github.com/ardikabs/d-merge/internal/merge"
	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/pkg/mergeconfig"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// debugPatchEntry is one line of the raw patch.json debug dump. Every
// collected patch gets an entry, Pure and Seq alike (Discrete patches
// appear as the Seq entries they were expanded into); no priority
// resolution is applied to the dump.
type debugPatchEntry struct {
	Template    string `json:"template"`
	Is1stPerson bool   `json:"is_1st_person"`
	Path        string `json:"path"`
	Shape       string `json:"shape"`
	Op          string `json:"op"`
	Priority    int    `json:"priority"`
}

func shapeName(s patchop.Shape) string {
	switch s {
	case patchop.ShapePure:
		return "pure"
	case patchop.ShapeSeq:
		return "seq"
	case patchop.ShapeDiscrete:
		return "discrete"
	default:
		return "unknown"
	}
}

func opName(k patchop.OpKind) string {
	switch k {
	case patchop.OpAdd:
		return "add"
	case patchop.OpReplace:
		return "replace"
	case patchop.OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// writePatchDebug dumps every collected patch, across every template, to
// `<outputDir>/.d_merge/debug/patch.json`.
func writePatchDebug(col *collect.Collector, outputDir string) error {
	dir := filepath.Join(outputDir, ".d_merge", "debug")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dmerge: creating debug dir: %w", err)
	}

	var entries []debugPatchEntry
	for _, key := range col.Keys() {
		set := col.Get(key)
		if set == nil {
			continue
		}
		for _, path := range set.OneFieldPaths() {
			for _, pp := range set.OneFieldPatches(path) {
				entries = append(entries, debugPatchEntry{
					Template: key.TemplateName, Is1stPerson: key.Is1stPerson,
					Path: path, Shape: shapeName(pp.Patch.Shape), Op: opName(pp.Patch.Op.Kind), Priority: pp.Priority,
				})
			}
		}
		for _, path := range set.SequencePaths() {
			for _, pp := range set.SequencePatches(path) {
				entries = append(entries, debugPatchEntry{
					Template: key.TemplateName, Is1stPerson: key.Is1stPerson,
					Path: path, Shape: shapeName(pp.Patch.Shape), Op: opName(pp.Patch.Op.Kind), Priority: pp.Priority,
				})
			}
		}
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("dmerge: marshal patch debug: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "patch.json"), b, 0o644)
}

// writeOutputs writes every loaded template back out as merged JSON, XML
// and/or YAML, each format gated by its own cfg.Debug flag.
func writeOutputs(store *merge.TemplateStore, cfg mergeconfig.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("dmerge: creating output dir: %w", err)
	}

	for _, key := range store.Keys() {
		node, ok := store.Get(key)
		if !ok {
			continue
		}
		name := key.TemplateName
		if key.Is1stPerson {
			name += "_1stperson"
		}

		if cfg.Debug.OutputMergedJSON {
			if err := writeJSON(filepath.Join(cfg.OutputDir, name+".json"), *node); err != nil {
				return err
			}
		}
		if cfg.Debug.OutputMergedXML {
			if err := writeXML(filepath.Join(cfg.OutputDir, name+".xml"), key, *node); err != nil {
				return err
			}
		}
		if cfg.Debug.OutputMergedYAML {
			if err := writeYAML(filepath.Join(cfg.OutputDir, name+".yaml"), *node); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(path string, node patchtree.Node) error {
	b, err := node.MarshalJSON()
	if err != nil {
		return fmt.Errorf("dmerge: marshal json for %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}

func writeYAML(path string, node patchtree.Node) error {
	v, err := node.MarshalYAML()
	if err != nil {
		return fmt.Errorf("dmerge: marshal yaml for %s: %w", path, err)
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("dmerge: encode yaml for %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}

// writeXML renders a minimal HKX-flavored XML dump of the merged tree —
// a debug aid, not a binary-compatible re-encoding (spec.md's non-goal on
// a binary HKX encoder applies; this is plain element-per-field text).
func writeXML(path string, key patchop.TemplateKey, node patchtree.Node) error {
	var buf []byte
	buf = append(buf, []byte(fmt.Sprintf("<!-- template: %s first_person=%t -->\n", key.TemplateName, key.Is1stPerson))...)
	buf = appendXMLNode(buf, "root", node, 0)
	return os.WriteFile(path, buf, 0o644)
}

func appendXMLNode(buf []byte, name string, n patchtree.Node, depth int) []byte {
	indent := make([]byte, depth*2)
	for i := range indent {
		indent[i] = ' '
	}
	switch n.Kind() {
	case patchtree.KindObject:
		obj, _ := n.Object()
		buf = append(buf, indent...)
		buf = append(buf, []byte(fmt.Sprintf("<%s>\n", name))...)
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			buf = appendXMLNode(buf, k, v, depth+1)
		}
		buf = append(buf, indent...)
		buf = append(buf, []byte(fmt.Sprintf("</%s>\n", name))...)
	case patchtree.KindArray:
		arr, _ := n.Array()
		buf = append(buf, indent...)
		buf = append(buf, []byte(fmt.Sprintf("<%s numelements=\"%d\">\n", name, len(arr)))...)
		for _, v := range arr {
			buf = appendXMLNode(buf, "item", v, depth+1)
		}
		buf = append(buf, indent...)
		buf = append(buf, []byte(fmt.Sprintf("</%s>\n", name))...)
	default:
		b, err := json.Marshal(scalarValue(n))
		if err != nil {
			b = []byte("null")
		}
		buf = append(buf, indent...)
		buf = append(buf, []byte(fmt.Sprintf("<%s>%s</%s>\n", name, string(b), name))...)
	}
	return buf
}

func scalarValue(n patchtree.Node) any {
	switch n.Kind() {
	case patchtree.KindBool:
		v, _ := n.Bool()
		return v
	case patchtree.KindI64:
		v, _ := n.I64()
		return v
	case patchtree.KindU64:
		v, _ := n.U64()
		return v
	case patchtree.KindF64:
		v, _ := n.F64()
		return v
	case patchtree.KindStr:
		v, _ := n.Str()
		return v
	default:
		return nil
	}
}
