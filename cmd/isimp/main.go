// isimp simplifies polygon meshes with variational shape approximation.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/isimp/internal/config"
	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/operation"
	"github.com/Faultbox/isimp/internal/vsa"
	"github.com/Faultbox/isimp/pkg/formats"
	"github.com/Faultbox/isimp/pkg/mesh"
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) == 1 && (args[0] == "help" || args[0] == "ops") {
		printUsage()
		return
	}
	if len(args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	code := run(cfg, args)
	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Printf(`isimp - variational shape approximation mesh simplifier

Usage:
  isimp [flags] <operation> <mesh.obj> [out.obj]

Operations:
  %s

Flags:
  -proxies N       Number of proxies for flood
  -iterations N    Lloyd iterations
  -threshold T     Edge split threshold for remesh
  -keep-holes      Keep hole loops when remeshing
  -face F          Selected face for add/delete
  -config PATH     Config file (.yaml or .toml)
  -debug           Debug logging
  -log-file PATH   Also log to a rotating file

Labels and seeds are kept in <mesh.obj>.vsa between runs.

Examples:
  isimp -proxies 12 flood bunny.obj
  isimp -face 40 add bunny.obj
  isimp -threshold 0.5 remesh bunny.obj bunny_low.obj
`, strings.Join(operation.Names(), ", "))
}

func run(cfg *config.Config, args []string) int {
	op, err := operation.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	in := args[1]
	out := in
	if len(args) > 2 {
		out = args[2]
	}

	m, err := loadMesh(in, in+cfg.Output.StateSuffix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	params := operation.Params{
		NumProxies:         cfg.VSA.NumProxies,
		NumIterations:      cfg.VSA.NumIterations,
		EdgeSplitThreshold: cfg.VSA.EdgeSplitThreshold,
		KeepHoles:          cfg.VSA.KeepHoles,
		Selection:          config.SelectedFaces(),
	}

	res := operation.Execute(m, op, params)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error (%s): %s\n", res.Kind, res.Message)
		return 1
	}
	fmt.Println(res.Message)

	if err := saveMesh(cfg, m, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadMesh reads the OBJ at path and, when present, its state sidecar.
func loadMesh(path, statePath string) (*mesh.Mesh, error) {
	log := logger.Named("cli")

	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range obj.Warnings {
		log.Warn("skipped OBJ record", zap.String("file", path), zap.String("detail", w))
	}
	m, err := obj.Mesh()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	state, err := formats.ParseStateFile(statePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("no saved state", zap.String("file", statePath))
		return m, nil
	case err != nil:
		return nil, err
	}
	if err := state.Restore(m); err != nil {
		return nil, fmt.Errorf("%s: %w", statePath, err)
	}
	log.Debug("restored state",
		zap.String("file", statePath),
		zap.Stringer("version", state.Version),
		zap.Bool("labels", state.Labels != nil))
	return m, nil
}

// saveMesh writes the OBJ, its material library when colors are on, and the
// state sidecar.
func saveMesh(cfg *config.Config, m *mesh.Mesh, path string) error {
	labels, err := m.FaceLabels()
	if err != nil {
		return err
	}

	obj := formats.FromMesh(m, nil)
	if cfg.Output.WriteMaterials && m.DisplayColors() && labels != nil {
		obj = formats.FromMesh(m, labels)
		mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
		obj.MaterialLib = filepath.Base(mtlPath)
		if err := writeMTLFile(mtlPath, formats.LabelMaterials(labels, vsa.LabelColor)); err != nil {
			return err
		}
	}
	if err := formats.WriteOBJFile(path, obj); err != nil {
		return err
	}

	state, err := formats.StateOf(m)
	if err != nil {
		return err
	}
	if err := formats.WriteStateFile(path+cfg.Output.StateSuffix, state); err != nil {
		return err
	}

	logger.Named("cli").Info("wrote mesh",
		zap.String("file", path),
		zap.Int("faces", m.NumFaces()),
		zap.Int("vertices", m.NumVertices()))
	return nil
}

func writeMTLFile(path string, materials []formats.Material) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating MTL file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return formats.WriteMTL(f, materials)
}
