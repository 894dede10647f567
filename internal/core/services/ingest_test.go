package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

// fakeEmbedder returns a constant vector, optionally failing.
type fakeEmbedder struct {
	err   error
	calls int
}

func (e *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{1, 0, 0}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := e.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int            { return 3 }
func (e *fakeEmbedder) ModelName() string          { return "fake" }
func (e *fakeEmbedder) Ping(context.Context) error { return nil }
func (e *fakeEmbedder) Close() error               { return nil }

const ingestDoc = `PROJECT OVERVIEW

The project delivers a document indexing pipeline for the finance team.

TIMELINE

Phase one completes in March. Phase two completes in June.`

func newIngestFixture(emb *fakeEmbedder) (*IngestService, *vector.Store, *lexical.Store) {
	vec := vector.New(emb)
	lex := lexical.New()
	return NewIngestService(segmenter.New(), vec, lex), vec, lex
}

func TestIngest_EmptyTextRejected(t *testing.T) {
	svc, vec, lex := newIngestFixture(&fakeEmbedder{})

	_, err := svc.Ingest(context.Background(), "a.txt", "   \n ", domain.DocumentMetadata{})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Empty(t, vec.GetAll())
	assert.Zero(t, lex.Len())
}

func TestIngest_InvalidMetadataRejected(t *testing.T) {
	svc, _, _ := newIngestFixture(&fakeEmbedder{})

	_, err := svc.Ingest(context.Background(), "a.txt", ingestDoc,
		domain.DocumentMetadata{DocumentType: "memo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_WritesBothStores(t *testing.T) {
	svc, vec, lex := newIngestFixture(&fakeEmbedder{})

	report, err := svc.Ingest(context.Background(), "plan.txt", ingestDoc, domain.DocumentMetadata{})
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.NotEmpty(t, report.DocumentID)
	assert.Greater(t, report.Chunks, 0)

	docs := vec.GetAll()
	assert.Len(t, docs, report.Chunks)
	assert.Equal(t, report.Chunks, lex.Len())

	// Chunk IDs derive from the document ID and ordinal.
	for i, d := range docs {
		assert.True(t, strings.HasPrefix(d.ID, report.DocumentID+"#"),
			"chunk %d id %q", i, d.ID)
		assert.Equal(t, "plan.txt", d.Metadata.Filename)
		assert.NotEmpty(t, d.Metadata.DocumentType, "type should be detected when absent")
	}
}

func TestIngest_ChunkIDsCarrySequentialOrdinals(t *testing.T) {
	svc, vec, _ := newIngestFixture(&fakeEmbedder{})

	report, err := svc.Ingest(context.Background(), "plan.txt", ingestDoc, domain.DocumentMetadata{})
	require.NoError(t, err)
	require.Greater(t, report.Chunks, 1)

	docs := vec.GetAll()
	require.Len(t, docs, report.Chunks)
	for i, d := range docs {
		assert.Equal(t, fmt.Sprintf("%s#%d", report.DocumentID, i), d.ID)
	}
}

func TestIngest_VectorFailureStillWritesLexical(t *testing.T) {
	svc, vec, lex := newIngestFixture(&fakeEmbedder{err: assert.AnError})

	report, err := svc.Ingest(context.Background(), "plan.txt", ingestDoc, domain.DocumentMetadata{})
	require.NoError(t, err, "partial write is reported, not returned as an error")

	assert.False(t, report.VectorOK())
	assert.True(t, report.LexicalOK())
	assert.Empty(t, vec.GetAll())
	assert.Equal(t, report.Chunks, lex.Len())
}

func TestIngest_KeepsProvidedMetadata(t *testing.T) {
	svc, vec, _ := newIngestFixture(&fakeEmbedder{})

	meta := domain.DocumentMetadata{
		Filename:     "override.txt",
		DocumentType: domain.TypeContract,
		Keywords:     []string{"pipeline"},
	}
	report, err := svc.Ingest(context.Background(), "plan.txt", ingestDoc, meta)
	require.NoError(t, err)
	require.Greater(t, report.Chunks, 0)

	docs := vec.GetAll()
	require.NotEmpty(t, docs)
	assert.Equal(t, "override.txt", docs[0].Metadata.Filename)
	assert.Equal(t, domain.TypeContract, docs[0].Metadata.DocumentType)
	assert.Equal(t, []string{"pipeline"}, docs[0].Metadata.Keywords)
}
