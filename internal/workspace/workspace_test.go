package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

func TestStore_ReplaceWholesale(t *testing.T) {
	s := NewStore(time.Hour)

	s.SetResolved("a", []string{"1", "2"})
	s.SetResolved("a", []string{"3"})
	assert.Equal(t, []string{"3"}, s.Resolved("a"))
	assert.Nil(t, s.Resolved("b"))

	s.SetProcessed("a", []model.ProcessedLink{{Original: "x"}})
	got := s.Processed("a")
	got[0].Original = "mutated"
	assert.Equal(t, "x", s.Processed("a")[0].Original)
}

func TestStore_Sweep(t *testing.T) {
	s := NewStore(time.Minute)
	s.SetResolved("old", []string{"1"})
	s.SetResolved("new", []string{"2"})

	s.data["old"].touched = time.Now().Add(-2 * time.Minute)

	assert.Equal(t, 1, s.Sweep(time.Now()))
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.Resolved("old"))
}

func TestStore_SweepDisabled(t *testing.T) {
	s := NewStore(0)
	s.SetResolved("a", []string{"1"})
	assert.Zero(t, s.Sweep(time.Now().Add(time.Hour)))
}

func TestStore_ReadsKeepSessionAlive(t *testing.T) {
	s := NewStore(time.Minute)
	s.SetProcessed("reader", []model.ProcessedLink{{Original: "x"}})
	s.SetResolved("resolver", []string{"1"})
	s.SetResolved("idle", []string{"2"})

	stale := time.Now().Add(-2 * time.Minute)
	for _, id := range []string{"reader", "resolver", "idle"} {
		s.data[id].touched = stale
	}

	assert.Len(t, s.Processed("reader"), 1)
	assert.Len(t, s.Resolved("resolver"), 1)

	assert.Equal(t, 1, s.Sweep(time.Now()))
	assert.Equal(t, 2, s.Len())
	_, ok := s.data["idle"]
	assert.False(t, ok)
}
