// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package results

import (
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/wikirag/core"
)

// Store persists evaluation records, indexed by id and by run.
type Store struct {
	backend *Backend
	logger  *slog.Logger
}

// NewStore creates a Store over an open backend.
func NewStore(backend *Backend) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "results.store"),
	}, nil
}

// PutRecord writes a record and its run index entry. An existing record with
// the same id is overwritten, so re-running an evaluation under the same run
// name updates outcomes in place.
func (s *Store) PutRecord(record *core.EvalRecord) error {
	if record == nil {
		return ErrNilRecord
	}
	if err := record.Validate(); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRecordKey(record.Id), MarshalEvalRecord(record)); err != nil {
			return err
		}
		if err := tx.Set(makeRunKey(record.Run, record.Id), MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRecord fetches one record by id.
func (s *Store) GetRecord(id core.ID) (*core.EvalRecord, error) {
	var record *core.EvalRecord

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRecordKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = UnmarshalEvalRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordsForRun returns every record persisted under the given run name, in
// id order.
func (s *Store) RecordsForRun(run string) ([]*core.EvalRecord, error) {
	var records []*core.EvalRecord

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialRunKey(run)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var id core.ID
			err := it.Item().Value(func(val []byte) error {
				var err error
				id, err = UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			record, err := s.readRecord(tx, id)
			if err != nil {
				// Index entries may outlive their records after a
				// partial rewrite; skip them.
				s.logger.Warn("dangling run index entry", "run", run, "id", id)
				continue
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) readRecord(tx *badger.Txn, id core.ID) (*core.EvalRecord, error) {
	item, err := tx.Get(makeRecordKey(id))
	if err != nil {
		return nil, err
	}
	var record *core.EvalRecord
	err = item.Value(func(val []byte) error {
		record, err = UnmarshalEvalRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
