package dxt

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bodgit/dxt/bc1"
	"github.com/bodgit/dxt/dds"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no texture is stored under a name
var ErrNotFound = errors.New("dxt: texture not found")

// TextureDB is a library of BC1 compressed textures stored in a sqlite
// database. Identical block data is only stored once.
type TextureDB struct {
	db *sql.DB
}

// NewTextureDB opens or creates the database in file
func NewTextureDB(file string) (*TextureDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS blocks (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture (id INTEGER PRIMARY KEY NOT NULL, name STRING NOT NULL UNIQUE, blocks_id INTEGER NOT NULL, FOREIGN KEY(blocks_id) REFERENCES blocks(id))"); err != nil {
		return nil, err
	}

	return &TextureDB{
		db: db,
	}, nil
}

// Close closes the database
func (db *TextureDB) Close() error {
	return db.db.Close()
}

// readBlocks returns the BC1 block data and image dimensions of a file. DDS
// files are used as is, any other image format is compressed.
func readBlocks(file string) ([]byte, int, int, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, 0, 0, err
	}

	if _, format, err := image.DecodeConfig(bytes.NewReader(b)); err == nil && format == "dds" {
		h, blocks, err := dds.ReadBlocks(bytes.NewReader(b))
		if err != nil {
			return nil, 0, 0, err
		}
		return blocks, int(h.Width), int(h.Height), nil
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, 0, 0, err
	}
	blocks, err := bc1.Encode(m)
	if err != nil {
		return nil, 0, 0, err
	}
	return blocks, m.Bounds().Dx(), m.Bounds().Dy(), nil
}

// Name returns the name a file is stored under
func Name(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// Import stores the texture in file under its base name without extension,
// replacing any texture already stored under that name
func (db *TextureDB) Import(file string) (string, error) {
	blocks, width, height, err := readBlocks(file)
	if err != nil {
		return "", err
	}

	id, err := db.addBlocks(blocks, width, height)
	if err != nil {
		return "", err
	}

	name := Name(file)
	if _, err := db.db.Exec("INSERT OR REPLACE INTO texture (name, blocks_id) VALUES (?, ?)", name, id); err != nil {
		return "", err
	}

	return name, nil
}

func (db *TextureDB) addBlocks(blocks []byte, width, height int) (int64, error) {
	// Identical blocks can describe differently shaped images
	h := sha1.New()
	fmt.Fprintf(h, "%dx%d:", width, height)
	h.Write(blocks)
	sha := fmt.Sprintf("%X", h.Sum(nil))

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM blocks WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO blocks (sha1, width, height, data) VALUES (?, ?, ?, ?)", sha, width, height, blocks)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Lookup decodes the texture stored under name
func (db *TextureDB) Lookup(name string) (*bc1.Image, error) {
	var width, height int
	var blocks []byte
	switch err := db.db.QueryRow("SELECT b.width, b.height, b.data FROM texture AS t JOIN blocks AS b ON t.blocks_id = b.id WHERE t.name = ?", name).Scan(&width, &height, &blocks); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
	default:
		return nil, err
	}

	// Block data always covers whole blocks
	m, err := bc1.Decode(blocks, (width+3)&^3, (height+3)&^3)
	if err != nil {
		return nil, err
	}
	if m.Rect.Dx() != width || m.Rect.Dy() != height {
		return m.SubImage(image.Rect(0, 0, width, height)).(*bc1.Image), nil
	}
	return m, nil
}

// Names returns the names of all stored textures in sorted order
func (db *TextureDB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM texture ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of distinct block payloads stored
func (db *TextureDB) Count() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM blocks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
