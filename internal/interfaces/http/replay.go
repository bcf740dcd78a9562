package httpinterface

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/gagliardetto/solana-go"
)

// replayTTL is how long an accepted signature is remembered. A timestamp is
// accepted up to MaxClockSkew on both sides of the server time, so a
// signature cannot verify anymore once this much time has passed.
const replayTTL = 2 * MaxClockSkew

// replayGuard remembers the signatures of accepted requests until they
// expire so that a captured request cannot be submitted twice.
type replayGuard struct {
	db *badger.DB
}

func newReplayGuard() (*replayGuard, error) {
	opts := badger.DefaultOptions("")
	opts.InMemory = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &replayGuard{db}, nil
}

// check marks the signature as used, or returns ErrReplayedSignature if it
// already was.
func (g *replayGuard) check(signature solana.Signature) error {
	key := signature[:]
	err := g.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrReplayedSignature
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, nil).WithTTL(replayTTL))
	})
	// Two concurrent requests with the same signature conflict on the key,
	// only the committed one goes through.
	if errors.Is(err, badger.ErrConflict) {
		return ErrReplayedSignature
	}
	return err
}

func (g *replayGuard) close() error {
	return g.db.Close()
}
