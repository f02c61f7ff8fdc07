package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/fsutil"
)

// FileExtension is the extension of network definition files.
const FileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL network loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes all top-level blocks of a single file.
type fileRoot struct {
	Inputs  []*inputBlock  `hcl:"input,block"`
	Nodes   []*nodeBlock   `hcl:"node,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

type inputBlock struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

type nodeBlock struct {
	Name     string         `hcl:"name,label"`
	Function string         `hcl:"function"`
	Args     hcl.Expression `hcl:"args,optional"`
}

type outputBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}

// Load parses every HCL file found at paths and merges their blocks into one
// model. Directories are searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", FileExtension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		part, err := translateFile(ctx, &root)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		model.Merge(part)
	}

	logger.Debug("HCL loading complete.", "inputs", len(model.Inputs), "nodes", len(model.Nodes), "outputs", len(model.Outputs))
	return model, nil
}

// findAllHCLFiles returns the HCL files at paths without duplicates. An
// explicitly named file is accepted whatever its extension.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, FileExtension)
		if err != nil {
			return nil, fmt.Errorf("error searching %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
