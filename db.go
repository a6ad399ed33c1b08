package monovid

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"sync"

	"github.com/bodgit/monovid/video"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"
)

// ErrNotFound is returned when a clip is not in the library.
var ErrNotFound = errors.New("clip not found")

// Clip describes a stream held in the library.
type Clip struct {
	Name          string
	Hash          string
	Width, Height int
	Frames        int
	Size          int
}

type Library struct {
	mu  sync.Mutex
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewLibrary(file string) (*Library, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS stream (id INTEGER PRIMARY KEY NOT NULL, hash TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, frames INTEGER NOT NULL, size INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS clip (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, stream_id INTEGER NOT NULL, FOREIGN KEY(stream_id) REFERENCES stream(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Library{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

func (l *Library) Close() error {
	l.dec.Close()
	if err := l.enc.Close(); err != nil {
		l.db.Close()
		return err
	}
	return l.db.Close()
}

func hashStream(data []byte) string {
	h := blake3.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (l *Library) addStream(data []byte) (int64, error) {
	info, err := video.Probe(data)
	if err != nil {
		return 0, err
	}

	hash := hashStream(data)

	var id int64
	switch err := l.db.QueryRow("SELECT id FROM stream WHERE hash = ?", hash).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := l.db.Exec("INSERT INTO stream (hash, width, height, frames, size, data) VALUES (?, ?, ?, ?, ?, ?)", hash, info.Width, info.Height, info.Frames, len(data), l.enc.EncodeAll(data, nil))
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

// Add stores data under name, replacing any existing clip with that name.
// Identical streams are stored once.
func (l *Library) Add(name string, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stream, err := l.addStream(data)
	if err != nil {
		return err
	}

	if _, err := l.db.Exec("INSERT OR REPLACE INTO clip (name, stream_id) VALUES (?, ?)", name, stream); err != nil {
		return err
	}

	// Drop any stream no longer referenced
	if _, err := l.db.Exec("DELETE FROM stream WHERE id NOT IN (SELECT stream_id FROM clip)"); err != nil {
		return err
	}

	return nil
}

// ImportFile adds the stream in file under name.
func (l *Library) ImportFile(name, file string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}
	return l.Add(name, data)
}

// Get returns the stream stored under name.
func (l *Library) Get(name string) ([]byte, error) {
	var blob []byte
	switch err := l.db.QueryRow("SELECT s.data FROM clip AS c JOIN stream AS s ON c.stream_id = s.id WHERE c.name = ?", name).Scan(&blob); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return l.dec.DecodeAll(blob, nil)
	default:
		return nil, err
	}
}

// ExportFile writes the stream stored under name to file.
func (l *Library) ExportFile(name, file string) error {
	data, err := l.Get(name)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(file, data, os.FileMode(0644))
}

// Remove deletes the clip stored under name.
func (l *Library) Remove(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := l.db.Exec("DELETE FROM clip WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	_, err = l.db.Exec("DELETE FROM stream WHERE id NOT IN (SELECT stream_id FROM clip)")
	return err
}

// List returns every clip ordered by name.
func (l *Library) List() ([]Clip, error) {
	rows, err := l.db.Query("SELECT c.name, s.hash, s.width, s.height, s.frames, s.size FROM clip AS c JOIN stream AS s ON c.stream_id = s.id ORDER BY c.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		var c Clip
		if err := rows.Scan(&c.Name, &c.Hash, &c.Width, &c.Height, &c.Frames, &c.Size); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}

	return clips, rows.Err()
}

func (m *Monovid) Import(name, file string) error {
	return m.db.ImportFile(name, file)
}

func (m *Monovid) Export(name, file string) error {
	return m.db.ExportFile(name, file)
}

func (m *Monovid) Remove(name string) error {
	return m.db.Remove(name)
}

func (m *Monovid) List() ([]Clip, error) {
	return m.db.List()
}

func (m *Monovid) Get(name string) ([]byte, error) {
	return m.db.Get(name)
}
