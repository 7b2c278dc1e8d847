package rxnav

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderConcepts(t *testing.T) {
	out := RenderConcepts("Brand names for aspirin", []Concept{
		{RxCUI: "215568", Name: "Bayer Aspirin", TTY: "BN"},
		{RxCUI: "211874", Name: "aspirin 81 MG Oral Tablet [Bayer Aspirin]", Synonym: "Bayer Aspirin 81 MG", TTY: "SBD"},
	})
	assert.Equal(t, "Brand names for aspirin:\n"+
		"- Bayer Aspirin (RxCUI 215568, TTY BN)\n"+
		"- aspirin 81 MG Oral Tablet [Bayer Aspirin] (RxCUI 211874, TTY SBD), also known as Bayer Aspirin 81 MG\n", out)

	assert.Empty(t, RenderConcepts("Nothing", nil))
}

func TestRenderClasses(t *testing.T) {
	out := RenderClasses("ATC classification for aspirin", []DrugClass{
		{ClassID: "N02BA", ClassName: "Salicylic acid and derivatives", ClassType: "ATC1-4", DrugName: "aspirin"},
	})
	assert.Equal(t, "ATC classification for aspirin:\n- ATC N02BA Salicylic acid and derivatives (ATC1-4) via aspirin\n", out)
	assert.Empty(t, RenderClasses("Nothing", nil))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	body, ok := c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), body)
}

func TestCapResults(t *testing.T) {
	t.Run("ShouldDropDuplicateConceptsAndApplyLimit", func(t *testing.T) {
		concepts := []Concept{
			{RxCUI: "1", Name: "aspirin"},
			{RxCUI: "1", Name: "aspirin"},
			{RxCUI: "2", Name: "Bayer"},
			{RxCUI: "3", Name: "Ecotrin"},
		}
		assert.Equal(t, concepts[:1], capConcepts(concepts, 1))
		assert.Equal(t, []Concept{concepts[0], concepts[2], concepts[3]}, capConcepts(concepts, 10))
	})

	t.Run("ShouldDropDuplicateClassIDs", func(t *testing.T) {
		classes := []DrugClass{
			{ClassID: "N02BA", DrugName: "aspirin"},
			{ClassID: "B01AC", DrugName: "aspirin"},
			{ClassID: "N02BA", DrugName: "aspirin 81"},
		}
		assert.Equal(t, classes[:2], capClasses(classes, 10))
	})
}
