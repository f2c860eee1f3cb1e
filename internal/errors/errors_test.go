package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilderDefaults(t *testing.T) {
	base := NewStd("something broke")
	ee := New(base).Build()

	assert.Equal(t, "something broke", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.Nil(t, ee.Context)
	assert.WithinDuration(t, time.Now(), ee.Timestamp, time.Second)
}

func TestErrorBuilderFull(t *testing.T) {
	ee := Newf("movie %d not found", 42).
		Component("catalog").
		Category(CategoryNotFound).
		Context("movie_id", 42).
		Build()

	assert.Equal(t, "movie 42 not found", ee.Error())
	assert.Equal(t, "catalog", ee.Component)
	assert.Equal(t, CategoryNotFound, ee.Category)
	assert.Equal(t, 42, ee.Context["movie_id"])
}

func TestUnwrapPreservesSentinel(t *testing.T) {
	sentinel := NewStd("record not found")
	wrapped := New(fmt.Errorf("lookup failed: %w", sentinel)).
		Category(CategoryNotFound).
		Build()

	assert.True(t, Is(wrapped, sentinel))
	assert.Equal(t, "lookup failed: record not found", wrapped.Error())
}

func TestIsMatchesByCategory(t *testing.T) {
	a := Newf("a").Category(CategoryConflict).Build()
	b := Newf("b").Category(CategoryConflict).Build()
	c := Newf("c").Category(CategoryNotFound).Build()

	assert.True(t, Is(a, b))
	assert.False(t, Is(a, c))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryGeneric, CategoryOf(nil))
	assert.Equal(t, CategoryGeneric, CategoryOf(NewStd("plain")))

	ee := Newf("no such review").Category(CategoryNotFound).Build()
	assert.Equal(t, CategoryNotFound, CategoryOf(ee))

	// Category survives further wrapping
	wrapped := fmt.Errorf("handler: %w", ee)
	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
}

func TestGetContextReturnsCopy(t *testing.T) {
	ee := Newf("boom").Context("key", "value").Build()

	ctx := ee.GetContext()
	require.NotNil(t, ctx)
	ctx["key"] = "mutated"

	assert.Equal(t, "value", ee.Context["key"])
}

func TestTiming(t *testing.T) {
	ee := Newf("slow").Timing("list-movies", 1500*time.Millisecond).Build()

	assert.Equal(t, "list-movies", ee.Context["operation"])
	assert.Equal(t, int64(1500), ee.Context["duration_ms"])
}
