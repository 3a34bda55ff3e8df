// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/models"
)

const badgerCrossingKeyPrefix = "crossing:"

// BadgerCrossingStore keeps crossing state on disk so a restart does not
// re-alert vessels that were already inside.
type BadgerCrossingStore struct {
	db  *badger.DB
	ttl time.Duration
	own bool
}

// OpenBadgerCrossingStore opens (or creates) a Badger database at path.
func OpenBadgerCrossingStore(path string, ttl time.Duration) (*BadgerCrossingStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for crossing state: %w", err)
	}
	return &BadgerCrossingStore{db: db, ttl: ttl, own: true}, nil
}

// NewBadgerCrossingStore wraps an already open database. Close leaves it open.
func NewBadgerCrossingStore(db *badger.DB, ttl time.Duration) *BadgerCrossingStore {
	return &BadgerCrossingStore{db: db, ttl: ttl}
}

func badgerCrossingKey(key CrossingKey) []byte {
	return []byte(badgerCrossingKeyPrefix + key.String())
}

// Get implements CrossingStore.
func (s *BadgerCrossingStore) Get(_ context.Context, key CrossingKey) (models.CrossingState, bool, error) {
	var state models.CrossingState
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerCrossingKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get crossing state: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if err != nil {
		return models.CrossingState{}, false, err
	}
	return state, found, nil
}

// Put implements CrossingStore.
func (s *BadgerCrossingStore) Put(_ context.Context, key CrossingKey, state models.CrossingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal crossing state: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerCrossingKey(key), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Close implements CrossingStore.
func (s *BadgerCrossingStore) Close() error {
	if !s.own {
		return nil
	}
	return s.db.Close()
}
