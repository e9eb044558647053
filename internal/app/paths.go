package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .mbench/ project directory.
type Paths struct {
	Root   string // .mbench/
	DB     string // .mbench/mbench.db
	Config string // .mbench/config.yaml

	LogDir    string // .mbench/log/
	DaemonLog string // .mbench/log/daemon.out

	RunDir   string // .mbench/run/
	PIDFile  string // .mbench/run/daemon.pid
	PortFile string // .mbench/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".mbench")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "mbench.db"),
		Config: filepath.Join(root, "config.yaml"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.out"),

		RunDir:   filepath.Join(root, "run"),
		PIDFile:  filepath.Join(root, "run", "daemon.pid"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .mbench/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes ephemeral runtime files (PID file and port file).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.PortFile)
}
