package main

import (
	"os"

	"github.com/arthur-debert/tmplsync/pkg/config"
	"github.com/arthur-debert/tmplsync/pkg/errors"
	"github.com/arthur-debert/tmplsync/pkg/filesystem"
	"github.com/arthur-debert/tmplsync/pkg/hooks"
	"github.com/arthur-debert/tmplsync/pkg/paths"
	"github.com/arthur-debert/tmplsync/pkg/source"
	"github.com/arthur-debert/tmplsync/pkg/sync"
	"github.com/arthur-debert/tmplsync/pkg/types"
)

// env is everything a command needs to run against one project
type env struct {
	fs           types.FS
	projectRoot  string
	templateRoot string
	cfg          *config.Config
	src          types.ContentSource
	syncer       *sync.Syncer
}

// newEnv resolves the project and template roots, loads the project
// configuration and wires up a Syncer over the real filesystem
func newEnv() (*env, error) {
	projectRoot, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	templateRoot, err := getTemplateRoot()
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	src := source.NewDir(fsys, templateRoot)
	runner := hooks.NewExecRunner(cfg.Hooks.Pre, cfg.Hooks.Post)
	syncer := sync.New(fsys, src, projectRoot, cfg, runner)

	return &env{
		fs:           fsys,
		projectRoot:  projectRoot,
		templateRoot: templateRoot,
		cfg:          cfg,
		src:          src,
		syncer:       syncer,
	}, nil
}

func getProjectRoot() (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}
	if root := os.Getenv(paths.EnvProjectRoot); root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot determine working directory")
	}
	return wd, nil
}

func getTemplateRoot() (string, error) {
	if templateFlag != "" {
		return templateFlag, nil
	}
	if root := os.Getenv(paths.EnvTemplateRoot); root != "" {
		return root, nil
	}
	return "", errors.New(errors.ErrInvalidInput,
		"no template checkout: pass --template or set "+paths.EnvTemplateRoot)
}
