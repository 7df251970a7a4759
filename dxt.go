/*
Package dxt is a library for maintaining collections of BC1 (DXT1)
compressed textures.
*/
package dxt

import (
	"image/png"
	"io"
	"log"
	"os"
)

// Library ties a TextureDB to a logger
type Library struct {
	db     *TextureDB
	logger *log.Logger
}

// New returns a Library using db and logging to logger
func New(db *TextureDB, logger *log.Logger) *Library {
	return &Library{
		db:     db,
		logger: logger,
	}
}

// Import stores file in the library
func (l *Library) Import(file string) error {
	name, err := l.db.Import(file)
	if err != nil {
		return err
	}
	l.logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
	return nil
}

// Export writes the texture stored under name to w as a PNG
func (l *Library) Export(name string, w io.Writer) error {
	m, err := l.db.Lookup(name)
	if err != nil {
		return err
	}
	return png.Encode(w, m)
}

// ExportFile writes the texture stored under name to file as a PNG
func (l *Library) ExportFile(name, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := l.Export(name, f); err != nil {
		return err
	}
	l.logger.Printf("Exported \"%s\" to \"%s\"\n", name, file)
	return f.Close()
}

// Names lists the stored textures
func (l *Library) Names() ([]string, error) {
	return l.db.Names()
}
