// Package derivation computes deterministic program addresses from a
// namespace tag, an owner identity and optional salt seeds.
//
// Addresses are derived the same way Solana derives PDAs: the seeds plus a
// bump byte are hashed together with the program id, walking bumps from 255
// downward until the result falls off the ed25519 curve. The resulting bump is
// the proof that lets anybody re-derive and check the address cheaply.
package derivation

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// VaultNamespace is the seed tag of vault addresses.
	VaultNamespace = []byte("vault")
	// TransactionRecordNamespace is the seed tag of transaction record
	// addresses.
	TransactionRecordNamespace = []byte("tx_record")

	// ErrEmptyNamespace is returned when deriving with an empty namespace.
	ErrEmptyNamespace = errors.New("namespace must not be empty")
	// ErrZeroOwner is returned when deriving for the zero public key.
	ErrZeroOwner = errors.New("owner must not be the zero public key")
)

// Deriver derives program addresses owned by a given program id.
type Deriver struct {
	programID solana.PublicKey
}

// NewDeriver returns a Deriver bound to programID.
func NewDeriver(programID solana.PublicKey) (*Deriver, error) {
	if programID.IsZero() {
		return nil, fmt.Errorf("program id must not be the zero public key")
	}
	return &Deriver{programID}, nil
}

// ProgramID returns the program id the deriver is bound to.
func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Derive returns the address and bump for the given namespace, owner and
// salt. It is a pure function of its inputs and the program id.
func (d *Deriver) Derive(
	namespace []byte, owner solana.PublicKey, salt ...[]byte,
) (solana.PublicKey, uint8, error) {
	seeds, err := makeSeeds(namespace, owner, salt)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return solana.FindProgramAddress(seeds, d.programID)
}

// Verify returns whether address is the one derived from namespace, owner
// and salt with the given bump.
func (d *Deriver) Verify(
	address solana.PublicKey, bump uint8,
	namespace []byte, owner solana.PublicKey, salt ...[]byte,
) bool {
	seeds, err := makeSeeds(namespace, owner, salt)
	if err != nil {
		return false
	}
	seeds = append(seeds, []byte{bump})

	derived, err := solana.CreateProgramAddress(seeds, d.programID)
	if err != nil {
		return false
	}
	return derived.Equals(address)
}

// VaultAddress derives the address of the vault controlled by authority.
func (d *Deriver) VaultAddress(
	authority solana.PublicKey,
) (solana.PublicKey, uint8, error) {
	return d.Derive(VaultNamespace, authority)
}

// VerifyVaultAddress checks a stored vault address against its authority and
// bump.
func (d *Deriver) VerifyVaultAddress(
	address solana.PublicKey, authority solana.PublicKey, bump uint8,
) bool {
	return d.Verify(address, bump, VaultNamespace, authority)
}

// TransactionRecordAddress derives the address of the record logged for
// vault when its transaction counter was txCount. Record addresses are fully
// predictable from the vault's public state.
func (d *Deriver) TransactionRecordAddress(
	vault solana.PublicKey, txCount uint64,
) (solana.PublicKey, uint8, error) {
	return d.Derive(TransactionRecordNamespace, vault, Uint64Seed(txCount))
}

// Uint64Seed encodes n as 8 little-endian bytes.
func Uint64Seed(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}

func makeSeeds(
	namespace []byte, owner solana.PublicKey, salt [][]byte,
) ([][]byte, error) {
	if len(namespace) <= 0 {
		return nil, ErrEmptyNamespace
	}
	if owner.IsZero() {
		return nil, ErrZeroOwner
	}

	seeds := make([][]byte, 0, 2+len(salt))
	seeds = append(seeds, namespace, owner.Bytes())
	seeds = append(seeds, salt...)
	return seeds, nil
}
