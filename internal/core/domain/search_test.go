package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataFilter_IsZero(t *testing.T) {
	var nilFilter *MetadataFilter
	assert.True(t, nilFilter.IsZero())
	assert.True(t, (&MetadataFilter{}).IsZero())

	assert.False(t, (&MetadataFilter{DocumentTypes: []string{"email"}}).IsZero())
	assert.False(t, (&MetadataFilter{Keywords: []string{"revenue"}}).IsZero())
	assert.False(t, (&MetadataFilter{DateFrom: "2024-01-01"}).IsZero())
	assert.False(t, (&MetadataFilter{DateTo: "2024-12-31"}).IsZero())
}

func TestMetadataFilter_Key(t *testing.T) {
	assert.Empty(t, (&MetadataFilter{}).Key())

	var nilFilter *MetadataFilter
	assert.Empty(t, nilFilter.Key())

	a := &MetadataFilter{DocumentTypes: []string{"email"}, DateFrom: "2024-01-01"}
	b := &MetadataFilter{DocumentTypes: []string{"email"}, DateFrom: "2024-01-01"}
	c := &MetadataFilter{DocumentTypes: []string{"contract"}, DateFrom: "2024-01-01"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestWriteReport(t *testing.T) {
	ok := WriteReport{DocumentID: "d", Chunks: 3}
	assert.True(t, ok.VectorOK())
	assert.True(t, ok.LexicalOK())
	assert.True(t, ok.OK())

	partial := WriteReport{DocumentID: "d", Chunks: 3, VectorErr: assert.AnError}
	assert.False(t, partial.VectorOK())
	assert.True(t, partial.LexicalOK())
	assert.False(t, partial.OK())
}
