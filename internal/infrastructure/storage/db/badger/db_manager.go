package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const gcInterval = 30 * time.Minute

// DbManager holds the badgerhold store where the wallet state is persisted.
type DbManager struct {
	Store *badgerhold.Store

	quitChan chan struct{}
}

// NewDbManager opens (or creates if not exists) the badger store under
// baseDbDir. The store is kept in memory if baseDbDir is empty.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	var stateDir string
	if len(baseDbDir) > 0 {
		stateDir = filepath.Join(baseDbDir, "state")
	}

	store, err := createDb(stateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	m := &DbManager{
		Store:    store,
		quitChan: make(chan struct{}),
	}
	if len(stateDir) > 0 {
		go m.runValueLogGC()
	}
	return m, nil
}

// Close stops the value log GC and closes the store.
func (d *DbManager) Close() {
	select {
	case <-d.quitChan:
		return
	default:
		close(d.quitChan)
	}
	if err := d.Store.Close(); err != nil {
		log.WithError(err).Warn("failed to close state db")
	}
}

func (d *DbManager) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.quitChan:
			return
		case <-ticker.C:
			if err := d.Store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.WithError(err).Warn("state db value log gc failed")
			}
		}
	}
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
