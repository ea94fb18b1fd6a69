package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniquery/internal/models"
)

func textChunk(id int64, content string) models.StoredChunk {
	return models.StoredChunk{
		Chunk:    models.Chunk{ID: id, Content: content, ContentType: models.ContentTypeText},
		Filename: "doc.txt",
		FileType: models.FileTypeText,
	}
}

func TestRankEmptyQueryMatchesNothing(t *testing.T) {
	chunks := []models.StoredChunk{textChunk(1, "anything at all")}

	assert.Empty(t, Rank("", chunks, 10))
	assert.Empty(t, Rank("   \t", chunks, 10))
}

func TestRankScoresDistinctWordSubstrings(t *testing.T) {
	chunks := []models.StoredChunk{
		textChunk(1, "The capybara is the largest living rodent."),
		textChunk(2, "Capybaras swim well and live near water."),
		textChunk(3, "Nothing relevant here."),
	}

	got := Rank("capybara water", chunks, 10)
	require.Len(t, got, 2)
	// Chunk 2 matches both words ("capybara" is a substring of
	// "capybaras"), chunk 1 only one.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestRankDuplicateQueryWordsCountOnce(t *testing.T) {
	chunks := []models.StoredChunk{
		textChunk(1, "water"),
		textChunk(2, "water and rivers"),
	}

	got := Rank("water water water rivers", chunks, 10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	chunks := []models.StoredChunk{
		textChunk(10, "alpha beta"),
		textChunk(20, "alpha gamma"),
		textChunk(30, "alpha delta"),
	}

	got := Rank("alpha", chunks, 10)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{10, 20, 30}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestRankCaseInsensitive(t *testing.T) {
	chunks := []models.StoredChunk{textChunk(1, "GEOGRAPHY OF KENYA")}

	got := Rank("geography", chunks, 10)
	require.Len(t, got, 1)
}

func TestRankAppliesLimit(t *testing.T) {
	var chunks []models.StoredChunk
	for i := int64(1); i <= 15; i++ {
		chunks = append(chunks, textChunk(i, "common term"))
	}

	got := Rank("common", chunks, 10)
	assert.Len(t, got, 10)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestRankImageChunkWithoutOCRNeverMatches(t *testing.T) {
	record := models.ImageContent{ImageBase64: "cGF5bG9hZA==", HasText: false}
	chunks := []models.StoredChunk{
		{Chunk: models.Chunk{ID: 1, Content: record.Encode(), ContentType: models.ContentTypeImage}},
	}

	// Words from the serialized record or the display placeholder must not
	// match: ranking sees only the canonical (OCR) text, which is empty.
	assert.Empty(t, Rank("image visual base64", chunks, 10))
}

func TestRankImageChunkMatchesOnOCRText(t *testing.T) {
	record := models.ImageContent{OCRText: "emergency exit map", HasText: true}
	chunks := []models.StoredChunk{
		{Chunk: models.Chunk{ID: 7, Content: record.Encode(), ContentType: models.ContentTypeImage}},
	}

	got := Rank("exit", chunks, 10)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
}
