package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the application paths.
// Relative paths are ALWAYS resolved against the executable directory, never
// the current working directory.
type Paths struct {
	ExecutableDir string
	DataFile      string
	LogsDir       string
	ExportsDir    string
}

// GetPaths returns the application paths relative to the executable location.
// dataFile may be relative (joined to the executable directory) or absolute.
func GetPaths(dataFile string) (*Paths, error) {
	exeDir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}
	return NewPaths(exeDir, dataFile), nil
}

// NewPaths builds Paths rooted at baseDir.
func NewPaths(baseDir, dataFile string) *Paths {
	if dataFile == "" {
		dataFile = DefaultDataFileName
	}
	p := &Paths{
		ExecutableDir: baseDir,
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),
		ExportsDir:    filepath.Join(baseDir, DefaultExportsDir),
	}
	p.DataFile = p.Resolve(dataFile)
	return p
}

// ExecutableDir returns the directory holding the running binary, symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// Resolve returns name unchanged when absolute, otherwise joined to the executable directory.
func (p *Paths) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(p.ExecutableDir, name)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ExecutableDir, filename)
}

// GetExportPath returns the full path for an exported file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("data_file", p.DataFile),
		slog.Bool("data_file_exists", FileExists(p.DataFile)),
		slog.String("logs_dir", p.LogsDir),
		slog.String("exports_dir", p.ExportsDir))
}

// ResolveDataFile resolves a configured data file name against the executable directory.
func ResolveDataFile(name string) (string, error) {
	paths, err := GetPaths(name)
	if err != nil {
		return "", err
	}
	return paths.DataFile, nil
}
