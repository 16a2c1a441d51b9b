package config

import "path/filepath"

// BirthsPath returns the full path of the births CSV file.
func (d DataConfig) BirthsPath() string {
	return resolve(d.Dir, d.BirthsFile)
}

// BoundariesPath returns the full path of the local boundary file, or
// the empty string when boundaries are fetched from the network.
func (d DataConfig) BoundariesPath() string {
	if d.BoundariesFile == "" {
		return ""
	}
	return resolve(d.Dir, d.BoundariesFile)
}

// resolve joins a file name onto the data directory unless the name is
// already absolute.
func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
