/*
Package monovid is a library for encoding video for playback on small
bilevel displays and for maintaining a library of encoded clips.
*/
package monovid

import (
	"log"

	"github.com/bodgit/monovid/config"
)

type Monovid struct {
	db     *Library
	cfg    config.Config
	logger *log.Logger
}

func New(file string, cfg config.Config, logger *log.Logger) (*Monovid, error) {
	db, err := NewLibrary(file)
	if err != nil {
		return nil, err
	}

	return &Monovid{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (m *Monovid) Close() error {
	return m.db.Close()
}
