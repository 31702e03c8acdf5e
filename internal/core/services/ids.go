package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

// chunkNamespace scopes the name-based UUIDs of path-scheme chunk ids.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("compass-embed:chunk"))

// IDPolicy assigns collection-wide identifiers to chunks.
type IDPolicy struct {
	scheme domain.IDScheme
}

// NewIDPolicy creates a policy for the given scheme.
// An unknown scheme is rejected with domain.ErrInvalidArgument.
func NewIDPolicy(scheme domain.IDScheme) (*IDPolicy, error) {
	if scheme == "" {
		scheme = domain.IDSchemePath
	}
	if !scheme.IsValid() {
		return nil, fmt.Errorf("%w: unknown id scheme %q", domain.ErrInvalidArgument, scheme)
	}
	return &IDPolicy{scheme: scheme}, nil
}

// Scheme returns the policy's scheme.
func (p *IDPolicy) Scheme() domain.IDScheme {
	return p.scheme
}

// ChunkID returns the identifier of the chunk at index within the document
// found at source.
//
// The path scheme hashes (source, index, sha256(text)) into a name-based UUID,
// so re-ingesting a file overwrites its records and distinct files never collide.
// The legacy scheme yields doc_{index}_{fnv64(text)}.
func (p *IDPolicy) ChunkID(source string, index int, text string) string {
	if p.scheme == domain.IDSchemeLegacy {
		return LegacyChunkID(index, text)
	}
	return PathChunkID(source, index, text)
}

// PathChunkID builds a path-scheme chunk id.
func PathChunkID(source string, index int, text string) string {
	sum := sha256.Sum256([]byte(text))
	name := source + "\x00" + strconv.Itoa(index) + "\x00" + hex.EncodeToString(sum[:])
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}

// LegacyChunkID builds a legacy-scheme chunk id.
func LegacyChunkID(index int, text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("doc_%d_%d", index, h.Sum64())
}
