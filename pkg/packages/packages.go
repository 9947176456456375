package packages

import (
	_ "embed"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildenv/pkg/config"
	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/packages.schema.json
var schemaJSON []byte

// PropagatedFile is the file, relative to a package root, listing the
// packages it pulls into the environment.
const PropagatedFile = "nix-support/propagated-user-env-packages"

// rawPackage mirrors the payload before the priority is truncated
type rawPackage struct {
	Paths    []string `json:"paths" yaml:"paths"`
	Priority *float64 `json:"priority" yaml:"priority"`
}

// Parse validates a JSON package list and decodes it. A missing priority
// is 0; fractional priorities are truncated.
func Parse(data []byte) ([]types.Package, error) {
	if err := validate(gojsonschema.NewBytesLoader(data)); err != nil {
		return nil, err
	}

	var raw []rawPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageList, "JSON error: Failed to parse JSON")
	}
	return convert(raw), nil
}

// ParseYAML decodes a package list written in YAML. The document must have
// the same shape as the JSON payload.
func ParseYAML(data []byte) ([]types.Package, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageList, "YAML error: Failed to parse YAML")
	}
	if err := validate(gojsonschema.NewGoLoader(doc)); err != nil {
		return nil, err
	}

	var raw []rawPackage
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageList, "YAML error: Failed to parse YAML")
	}
	return convert(raw), nil
}

// Load reads the package list named by cfg. A pkgsPath file wins over the
// inline pkgs payload.
func Load(fsys types.FS, cfg *config.Config) ([]types.Package, error) {
	logger := logging.GetLogger("packages")

	switch {
	case cfg.PkgsPath != "":
		logger.Debug().Str("file", cfg.PkgsPath).Msg("Reading package list from file")
		data, err := fsys.ReadFile(cfg.PkgsPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "Failed to read packages from file (%s)", cfg.PkgsPath).
				WithDetail("path", cfg.PkgsPath)
		}
		switch strings.ToLower(filepath.Ext(cfg.PkgsPath)) {
		case ".yaml", ".yml":
			return ParseYAML(data)
		}
		return Parse(data)
	case cfg.Pkgs != "":
		return Parse([]byte(cfg.Pkgs))
	}

	return nil, errors.New(errors.ErrNoPackages,
		"No packages specified: neither 'pkgs' nor 'pkgsPath' environment variable is set")
}

// ReadExtraPaths reads one package root per line from file and returns the
// ones that are existing directories.
func ReadExtraPaths(fsys types.FS, file string) ([]string, error) {
	data, err := fsys.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "Failed to read extra paths (%s)", file).
			WithDetail("path", file)
	}

	var roots []string
	for _, line := range strings.Split(string(data), "\n") {
		root := strings.TrimSpace(line)
		if root == "" {
			continue
		}
		if info, err := fsys.Stat(root); err == nil && info.IsDir() {
			roots = append(roots, root)
		}
	}
	return roots, nil
}

// ReadPropagated returns the package roots listed in root's propagated
// packages file, or nil when there is none.
func ReadPropagated(fsys types.FS, root string) ([]string, error) {
	path := filepath.Join(root, PropagatedFile)
	if _, err := fsys.Stat(path); err != nil {
		return nil, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "Failed to read propagated packages (%s)", path).
			WithDetail("path", path)
	}
	return strings.Fields(string(data)), nil
}

func validate(document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), document)
	if err != nil {
		return errors.Wrap(err, errors.ErrPackageList, "JSON error: Failed to parse JSON")
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return errors.Newf(errors.ErrPackageList, "JSON error: invalid package list: %s", strings.Join(problems, "; ")).
			WithDetail("errors", problems)
	}
	return nil
}

func convert(raw []rawPackage) []types.Package {
	pkgs := make([]types.Package, 0, len(raw))
	for _, r := range raw {
		pkg := types.Package{Paths: r.Paths}
		if r.Priority != nil {
			pkg.Priority = int(*r.Priority)
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}
