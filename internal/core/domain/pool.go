package domain

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Pool is a pooled-contribution syndicate bound to a single lottery engine
// instance. The binding is immutable for the pool's lifetime.
type Pool struct {
	Address      string
	EngineID     string
	Creator      string
	Salt         string
	CurrentRound RoundID
	CreatedAt    int64
}

func NewPool(engineID, creator, salt string, currentRound RoundID, createdAt int64) (*Pool, error) {
	if len(engineID) <= 0 {
		return nil, fmt.Errorf("missing engine id")
	}
	if len(creator) <= 0 {
		return nil, fmt.Errorf("missing creator")
	}

	return &Pool{
		Address:      DerivePoolAddress(engineID, creator, salt),
		EngineID:     engineID,
		Creator:      creator,
		Salt:         salt,
		CurrentRound: currentRound,
		CreatedAt:    createdAt,
	}, nil
}

// DerivePoolAddress computes the deterministic address of a pool from its
// (engine, creator, salt) triple. The same triple always yields the same
// address.
func DerivePoolAddress(engineID, creator, salt string) string {
	hasher := sha3.NewLegacyKeccak256()
	for _, part := range []string{engineID, creator, salt} {
		buf := []byte(part)
		// length prefix prevents ambiguous concatenations
		hasher.Write([]byte{byte(len(buf) >> 8), byte(len(buf))})
		hasher.Write(buf)
	}
	sum := hasher.Sum(nil)
	return "pool1" + hex.EncodeToString(sum[12:])
}
