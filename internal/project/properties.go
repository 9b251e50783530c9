// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/magiconair/properties"
)

// PropertiesFile is a Java .properties file that build properties are written to.
// It is created on first write if missing.
type PropertiesFile struct {
	fs   billy.Filesystem
	path string
}

// NewPropertiesFile returns the properties file at path.
func NewPropertiesFile(fs billy.Filesystem, path string) *PropertiesFile {
	return &PropertiesFile{fs: fs, path: path}
}

// Path returns the file location.
func (f *PropertiesFile) Path() string { return f.path }

// Load reads the file. A missing file yields empty properties.
func (f *PropertiesFile) Load() (*properties.Properties, error) {
	data, err := util.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			p := properties.NewProperties()
			p.DisableExpansion = true
			return p, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return p, nil
}

// Get returns the value of key and whether it is set.
func (f *PropertiesFile) Get(key string) (string, bool, error) {
	p, err := f.Load()
	if err != nil {
		return "", false, err
	}
	v, ok := p.Get(key)
	return v, ok, nil
}

// SetProperty sets key to value and rewrites the file, keeping the other entries.
func (f *PropertiesFile) SetProperty(key, value string) (err error) {
	p, err := f.Load()
	if err != nil {
		return err
	}
	if _, _, err = p.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err = f.fs.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	out, err := f.fs.Create(f.path)
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("write %s: %w", f.path, closeErr)
		}
	}()

	if _, err = p.Write(out, properties.UTF8); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
