package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() Spec {
	return Spec{
		Author:         "Ada",
		Title:          "Engines",
		Tone:           "friendly",
		TargetAudience: []string{"engineers"},
		Description:    "A short book",
		ChaptersCount:  3,
		Length:         "short",
	}
}

func TestSpec_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validSpec().Validate())
	})

	t.Run("missing title and author", func(t *testing.T) {
		spec := validSpec()
		spec.Title = " "
		spec.Author = ""
		err := spec.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "title, author")
	})

	t.Run("chapters out of range", func(t *testing.T) {
		spec := validSpec()
		spec.ChaptersCount = 51
		assert.ErrorIs(t, spec.Validate(), ErrInvalidInput)
		spec.ChaptersCount = 0
		assert.ErrorIs(t, spec.Validate(), ErrInvalidInput)
	})
}

func TestEbook_Stage(t *testing.T) {
	e := &Ebook{}
	assert.Equal(t, StageDraft, e.Stage())

	e.ID = "ebook_1"
	assert.Equal(t, StageCreated, e.Stage())

	e.SetTOC([]TOCEntry{{Number: 0, Title: "Intro"}})
	assert.Equal(t, StageTOCReady, e.Stage())
	assert.False(t, e.TOCSaved)

	e.SetChapters([]Chapter{{Number: 0, Title: "Intro", Content: "hello"}})
	assert.Equal(t, StageCompleted, e.Stage())
	assert.Equal(t, StatusCompleted, e.Status)
}

func TestEbook_ReplaceChapterContent(t *testing.T) {
	e := &Ebook{ID: "e", Chapters: []Chapter{
		{Number: 1, Title: "One", Content: "a"},
		{Number: 2, Title: "Two", Content: "b"},
	}}

	require.NoError(t, e.ReplaceChapterContent(2, "new"))
	assert.Equal(t, "a", e.Chapter(1).Content)
	assert.Equal(t, "new", e.Chapter(2).Content)
	assert.Equal(t, "Two", e.Chapter(2).Title)

	err := e.ReplaceChapterContent(9, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEbook_ReplaceImage(t *testing.T) {
	e := &Ebook{ID: "e", Illustrations: []IllustrationSet{
		{ChapterNumber: 2, Images: []Image{{Index: 0, Data: []byte("a")}, {Index: 1, Data: []byte("b")}}},
	}}

	err := e.ReplaceImage(2, 1, Image{Data: []byte("c"), Source: ImageSourceGenerated})
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), e.IllustrationSet(2).Images[0].Data)
	assert.Equal(t, []byte("c"), e.IllustrationSet(2).Images[1].Data)
	assert.Equal(t, 1, e.IllustrationSet(2).Images[1].Index)

	assert.ErrorIs(t, e.ReplaceImage(2, 5, Image{}), ErrNotFound)
	assert.ErrorIs(t, e.ReplaceImage(3, 0, Image{}), ErrNotFound)
}

func TestEbook_DecodeSnapshot(t *testing.T) {
	raw := `{
		"_id": "ebook_1",
		"user_id": "user_1",
		"author": "Ada",
		"title": "Engines",
		"tone": "friendly",
		"target_audience": ["engineers"],
		"description": "desc",
		"chapters_count": 1,
		"length": "short",
		"status": "completed",
		"toc": [{"number": 0, "title": "Intro", "description": "d", "type": "introduction", "subtitles": ["a", "b"]}],
		"chapters": [{"number": 0, "title": "Intro", "content": "text"}],
		"cover": {"title": "Engines", "author": "Ada", "design": {"colors": ["#fff"]}}
	}`

	var e Ebook
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, "ebook_1", e.ID)
	assert.Equal(t, "Engines", e.Title)
	assert.Equal(t, []string{"a", "b"}, e.TOC[0].Subtitles)
	require.NotNil(t, e.Cover)
	assert.Equal(t, []string{"#fff"}, e.Cover.Design.Colors)
	assert.Nil(t, e.LegalPages)
	assert.Equal(t, StageCompleted, e.Stage())
}

func TestImage_Status(t *testing.T) {
	assert.Equal(t, ImagePending, Image{}.Status())
	assert.Equal(t, ImageReady, Image{Data: []byte{1}}.Status())
	assert.Equal(t, ImageFailed, Image{Error: "nope", Data: []byte{1}}.Status())
}

func TestEbook_Summarize(t *testing.T) {
	e := &Ebook{ID: "e", Spec: Spec{Title: "T", Author: "A"}, Status: StatusDraft, Chapters: []Chapter{{Number: 1}}}
	s := e.Summarize()
	assert.Equal(t, Summary{ID: "e", Title: "T", Author: "A", Status: StatusDraft, ChapterCount: 1}, s)
}
