package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_IsEnrichment(t *testing.T) {
	for _, s := range EnrichmentStages() {
		assert.True(t, s.IsEnrichment(), s)
	}
	assert.False(t, StageGenerateContent.IsEnrichment())
	assert.False(t, StageCompleted.IsEnrichment())
}

func TestStage_FailureMessage(t *testing.T) {
	assert.Equal(t, "Cover generation failed", StageCover.FailureMessage())
	assert.Equal(t, GenericErrorMessage, Stage("unknown").FailureMessage())
}

func TestStage_Label(t *testing.T) {
	assert.Equal(t, "Legal pages", StageLegalPages.Label())
	assert.Equal(t, "mystery", Stage("mystery").Label())
}
