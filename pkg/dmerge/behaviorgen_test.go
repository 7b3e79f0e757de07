/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package dmerge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ardikabs/d-merge/pkg/mergeconfig"
)

var _ = Describe("BehaviorGen", func() {
	var (
		resourceDir string
		modDir      string
		outputDir   string
	)

	BeforeEach(func() {
		resourceDir = GinkgoT().TempDir()
		modDir = GinkgoT().TempDir()
		outputDir = GinkgoT().TempDir()
	})

	writeTemplate := func(name string, body string) {
		Expect(os.WriteFile(filepath.Join(resourceDir, name+".json"), []byte(body), 0o644)).To(Succeed())
	}

	writeModPatch := func(name string, body string) {
		Expect(os.MkdirAll(modDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(modDir, name+".txt"), []byte(body), 0o644)).To(Succeed())
	}

	It("applies a Nemesis patch end to end and types every leaf correctly", func() {
		By("seeding a template with one numeric, one bool, and one string field")
		writeTemplate("defaultmale", `{"#0001":{"speed":1.0,"enabled":false,"label":"idle"}}`)

		By("writing a mod patch that replaces all three fields")
		patch := strings.Join([]string{
			`<hkobject name="#0001">`,
			`<hkparam name="speed">`,
			`<!-- MOD_CODE ~1~ OPEN -->`,
			`3.5`,
			`<!--ORIGINAL-->`,
			`1.0`,
			`<!-- CLOSE -->`,
			`</hkparam>`,
			`<hkparam name="enabled">`,
			`<!-- MOD_CODE ~2~ OPEN -->`,
			`true`,
			`<!--ORIGINAL-->`,
			`false`,
			`<!-- CLOSE -->`,
			`</hkparam>`,
			`<hkparam name="label">`,
			`<!-- MOD_CODE ~3~ OPEN -->`,
			`running`,
			`<!--ORIGINAL-->`,
			`idle`,
			`<!-- CLOSE -->`,
			`</hkparam>`,
			`</hkobject>`,
		}, "\n")
		writeModPatch("defaultmale", patch)

		By("running behavior_gen")
		cfg := mergeconfig.Config{
			ResourceDir:  resourceDir,
			OutputDir:    outputDir,
			OutputTarget: mergeconfig.SkyrimSE,
			Debug:        mergeconfig.DebugOptions{OutputMergedJSON: true},
		}
		patchMaps := mergeconfig.PatchMaps{
			NemesisEntries: mergeconfig.OrderedModEntries{
				{ModPath: modDir, Priority: 1},
			},
		}

		summary, err := BehaviorGen(context.Background(), logr.Discard(), patchMaps, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Empty()).To(BeTrue())

		By("reading the merged template back and checking each field's type survived the round trip")
		merged, err := os.ReadFile(filepath.Join(outputDir, "defaultmale.json"))
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(merged, &got)).To(Succeed())

		want := map[string]any{
			"#0001": map[string]any{
				"speed":   3.5,
				"enabled": true,
				"label":   "running",
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			Fail("merged template mismatch (-want +got):\n" + diff)
		}
	})
})
