package storage

import (
	"testing"

	"github.com/iamshreeyyy/hackxr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunk() *core.Chunk {
	return &core.Chunk{
		Id:             core.ChunkID("policy.txt", 2, 5),
		SourceDocument: "policy.txt",
		Text:           "Knee surgery is covered after the waiting period.",
		Paragraph:      2,
		Ordinal:        5,
		Metadata: core.ChunkMetadata{
			WordCount:  8,
			CharCount:  49,
			KeyPhrases: []string{"knee surgery", "waiting period"},
			Type:       core.ContentEligibility,
		},
	}
}

func TestChunkRoundTrip(t *testing.T) {
	chunk := testChunk()

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestIndexEntryRoundTrip(t *testing.T) {
	entry := &core.IndexEntry{
		Chunk:  *testChunk(),
		Dense:  []float32{0.1, -0.5, 0.83},
		Sparse: map[string]float64{"knee": 0.25, "surgery": 0.125},
	}

	got, err := UnmarshalIndexEntry(MarshalIndexEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry.Chunk, got.Chunk)
	assert.Equal(t, entry.Dense, got.Dense)
	assert.Equal(t, entry.Sparse, got.Sparse)
}

func TestIDRoundTrip(t *testing.T) {
	id := core.IDFromContent("some chunk text")

	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUnmarshalTruncated(t *testing.T) {
	data := MarshalIndexEntry(&core.IndexEntry{Chunk: *testChunk()})

	_, err := UnmarshalIndexEntry(data[:len(data)/2])
	assert.Error(t, err)
}
