//go:build governance

// Package adapter_test contains architecture governance tests that enforce
// boundary rules across the whole module. These load every package, so they
// are slower than the regular suite and hidden behind a build tag:
//
//	go test -tags governance ./pkg/adapter/
package adapter_test

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/milgrid"

// loadModulePackages loads every non-test package in the module with enough
// detail to inspect the import graph.
func loadModulePackages(t *testing.T) []*packages.Package {
	t.Helper()

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Dir:  "../..",
	}

	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("Packages contained errors")
	}
	return pkgs
}

// TestPublicPackagesDoNotImportInternal verifies that nothing under pkg/
// imports anything under internal/. Public packages are importable by other
// modules; if they leaned on internal code, the compiler would reject those
// importers.
func TestPublicPackagesDoNotImportInternal(t *testing.T) {
	pkgs := loadModulePackages(t)

	var violations []string
	for _, p := range pkgs {
		if !strings.HasPrefix(p.PkgPath, modulePath+"/pkg/") {
			continue
		}
		for importPath := range p.Imports {
			if strings.HasPrefix(importPath, modulePath+"/internal/") {
				violations = append(violations, p.PkgPath+" imports "+importPath)
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Errorf("Public packages must not import internal packages:\n  %s\n\nFix: move the shared code under pkg/, or move the public package under internal/.",
			strings.Join(violations, "\n  "))
	}
}

// TestRegistryMediatesDriverAccess verifies that application code reaches
// concrete database drivers only through the adapter registry. Driver
// packages register themselves in init(), so the only legitimate reference
// from internal/ is the blank import in the CLI composition root. Everything
// else must hold an adapter.Adapter and stay driver-agnostic.
func TestRegistryMediatesDriverAccess(t *testing.T) {
	pkgs := loadModulePackages(t)

	// The composition root wires drivers in via blank imports.
	compositionRoots := map[string]bool{
		modulePath + "/internal/cli/commands": true,
	}

	var violations []string
	for _, p := range pkgs {
		if !strings.HasPrefix(p.PkgPath, modulePath+"/internal/") {
			continue
		}
		if compositionRoots[p.PkgPath] {
			continue
		}
		for importPath := range p.Imports {
			if strings.HasPrefix(importPath, modulePath+"/pkg/adapters/") {
				violations = append(violations, p.PkgPath+" imports "+importPath)
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Errorf("Only the CLI composition root may import concrete driver packages:\n  %s\n\nFix: depend on pkg/adapter and obtain the driver through adapter.New, or add the package to compositionRoots if it genuinely wires drivers.",
			strings.Join(violations, "\n  "))
	}
}

// TestDriversDependOnlyOnContract verifies that concrete driver packages
// under pkg/adapters/ import the adapter contract and nothing else from this
// module. A driver that reaches into internal/ or into a sibling driver
// couples code that the registry exists to decouple.
func TestDriversDependOnlyOnContract(t *testing.T) {
	pkgs := loadModulePackages(t)

	var violations []string
	for _, p := range pkgs {
		if !strings.HasPrefix(p.PkgPath, modulePath+"/pkg/adapters/") {
			continue
		}
		for importPath := range p.Imports {
			if !strings.HasPrefix(importPath, modulePath+"/") {
				continue
			}
			if importPath == modulePath+"/pkg/adapter" {
				continue
			}
			violations = append(violations, p.PkgPath+" imports "+importPath)
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Errorf("Driver packages may only import the adapter contract:\n  %s\n\nFix: move shared driver helpers into pkg/adapter, or inline them.",
			strings.Join(violations, "\n  "))
	}
}
