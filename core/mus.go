package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the values the index store persists. Hand-written in
// the mus-format style; the set is small enough that generation is not
// worth a build step.

var (
	IDMUS         = idMUS{}
	MetadataMUS   = metadataMUS{}
	ChunkMUS      = chunkMUS{}
	IndexEntryMUS = indexEntryMUS{}

	phrasesSer = ord.NewSliceSer[string](ord.String)
	denseSer   = ord.NewSliceSer[float32](raw.Float32)
	sparseSer  = ord.NewMapSer[string, float64](ord.String, raw.Float64)
)

type idMUS struct{}

var _ mus.Serializer[ID] = idMUS{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type metadataMUS struct{}

var _ mus.Serializer[ChunkMetadata] = metadataMUS{}

func (metadataMUS) Marshal(m ChunkMetadata, bs []byte) int {
	n := varint.Int.Marshal(m.WordCount, bs)
	n += varint.Int.Marshal(m.CharCount, bs[n:])
	n += phrasesSer.Marshal(m.KeyPhrases, bs[n:])
	n += ord.String.Marshal(string(m.Type), bs[n:])
	return n
}

func (metadataMUS) Unmarshal(bs []byte) (m ChunkMetadata, n int, err error) {
	var n1 int
	if m.WordCount, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if m.CharCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.KeyPhrases, n1, err = phrasesSer.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	var typ string
	if typ, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	m.Type = ContentType(typ)
	return
}

func (metadataMUS) Size(m ChunkMetadata) int {
	return varint.Int.Size(m.WordCount) +
		varint.Int.Size(m.CharCount) +
		phrasesSer.Size(m.KeyPhrases) +
		ord.String.Size(string(m.Type))
}

func (s metadataMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type chunkMUS struct{}

var _ mus.Serializer[Chunk] = chunkMUS{}

func (chunkMUS) Marshal(c Chunk, bs []byte) int {
	n := IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.SourceDocument, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += varint.Int.Marshal(c.Paragraph, bs[n:])
	n += varint.Int.Marshal(c.Ordinal, bs[n:])
	n += MetadataMUS.Marshal(c.Metadata, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.SourceDocument, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Paragraph, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return
}

func (chunkMUS) Size(c Chunk) int {
	return IDMUS.Size(c.Id) +
		ord.String.Size(c.SourceDocument) +
		ord.String.Size(c.Text) +
		varint.Int.Size(c.Paragraph) +
		varint.Int.Size(c.Ordinal) +
		MetadataMUS.Size(c.Metadata)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type indexEntryMUS struct{}

var _ mus.Serializer[IndexEntry] = indexEntryMUS{}

func (indexEntryMUS) Marshal(e IndexEntry, bs []byte) int {
	n := ChunkMUS.Marshal(e.Chunk, bs)
	n += denseSer.Marshal(e.Dense, bs[n:])
	n += sparseSer.Marshal(e.Sparse, bs[n:])
	return n
}

func (indexEntryMUS) Unmarshal(bs []byte) (e IndexEntry, n int, err error) {
	var n1 int
	if e.Chunk, n, err = ChunkMUS.Unmarshal(bs); err != nil {
		return
	}
	if e.Dense, n1, err = denseSer.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Sparse, n1, err = sparseSer.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	return
}

func (indexEntryMUS) Size(e IndexEntry) int {
	return ChunkMUS.Size(e.Chunk) +
		denseSer.Size(e.Dense) +
		sparseSer.Size(e.Sparse)
}

func (s indexEntryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
