package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "github.com/Antoink/SDRV3/internal/config"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/logging"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/utils"
)

const defaultSession = "default"

// errNoData is returned when neither the session nor the configuration names a readable file.
var errNoData = errors.New("no data file found (pass one to `sdr load` or set data_files)")

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~") {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir = strings.TrimPrefix(dir, "~")
	dir = strings.TrimPrefix(dir, string(os.PathSeparator))
	dir = strings.TrimPrefix(dir, "/")
	return filepath.Join(home, dir), nil
}

func sessionsRoot(c *cfgpkg.Global) (string, error) {
	dir, err := expandHome(c.SessionsDir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure sessions dir: %w", err)
	}
	return dir, nil
}

func resolveSessionDir(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("session name is required")
	}
	if name == "." {
		// Local session: the nearest directory holding a session file, else the working dir.
		if root, err := utils.FindWorkspaceRoot(""); err == nil {
			return root, nil
		}
		return os.Getwd()
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid session name %q", name)
	}
	c, err := ensureConfig()
	if err != nil {
		return "", err
	}
	root, err := sessionsRoot(c)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// openSession returns the named session from disk, or a fresh unsaved one bound to its
// directory when none was saved yet.
func openSession(name string) (*session.Session, error) {
	dir, err := resolveSessionDir(name)
	if err != nil {
		return nil, err
	}
	s, err := session.Load(dir)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return session.New(dir), nil
}

// workingFile is the first configured data file that exists.
func workingFile(c *cfgpkg.Global) (string, bool) {
	return dataset.FirstExisting(c.DataFiles...)
}

// loadSession opens the named session and its dataset: the recorded source when there is one,
// otherwise the configured working file.
func loadSession(name string) (*session.Session, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	s, err := openSession(name)
	if err != nil {
		return nil, err
	}
	if s.Source != "" {
		if err := s.Reopen(); err != nil {
			return nil, err
		}
		return s, nil
	}
	path, ok := workingFile(c)
	if !ok {
		return nil, errNoData
	}
	if err := s.Open(path, dataset.Options{Sheet: c.Sheet}); err != nil {
		return nil, err
	}
	logging.For("cli").WithField("file", path).Debug("loaded working file")
	return s, nil
}

// loadRegistry returns the indicator tables with the configured norms overlay applied.
func loadRegistry() (*indicator.Registry, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	reg := indicator.Default()
	if c.NormsFile == "" {
		return reg, nil
	}
	o, err := indicator.LoadOverrides(c.NormsFile)
	if err != nil {
		return nil, fmt.Errorf("load norms: %w", err)
	}
	return reg.WithOverrides(o), nil
}

// loadCMJ reads the jump export, path overriding the configured file.
func loadCMJ(path string) (*dataset.Dataset, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = c.CMJFile
	}
	return dataset.Load(path, dataset.Options{Delimiter: c.Delimiter()})
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// writeOutput prints content, or writes it to path when one is given.
func writeOutput(w io.Writer, content, path string) error {
	if path == "" {
		_, err := fmt.Fprintln(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(w, "✓ Wrote %s\n", path)
	return nil
}
