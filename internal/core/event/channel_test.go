package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_BroadcastInBindOrder(t *testing.T) {
	c := NewChannel[int]()
	var got []string
	c.Bind(func(b []int) { got = append(got, "first") })
	c.Bind(func(b []int) { got = append(got, "second") })

	c.Broadcast([]int{1})
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Equal(t, 2, c.Len())
}

func TestChannel_EmptyBatchIsDropped(t *testing.T) {
	c := NewChannel[int]()
	calls := 0
	c.Bind(func([]int) { calls++ })
	c.Broadcast(nil)
	c.Broadcast([]int{})
	assert.Zero(t, calls)
}

func TestChannel_Unbind(t *testing.T) {
	c := NewChannel[string]()
	var got []string
	a := c.Bind(func(b []string) { got = append(got, "a:"+b[0]) })
	c.Bind(func(b []string) { got = append(got, "b:"+b[0]) })

	assert.True(t, c.Unbind(a))
	assert.False(t, c.Unbind(a))
	assert.False(t, c.Unbind(0), "the zero handle is never issued")

	c.Broadcast([]string{"x"})
	assert.Equal(t, []string{"b:x"}, got)
}

func TestChannel_BindDuringBroadcastAppliesNextTime(t *testing.T) {
	c := NewChannel[int]()
	late := 0
	var self Handle
	self = c.Bind(func([]int) {
		c.Bind(func([]int) { late++ })
		c.Unbind(self)
	})

	c.Broadcast([]int{1})
	assert.Zero(t, late)
	c.Broadcast([]int{2})
	assert.Equal(t, 1, late)
	assert.Equal(t, 1, c.Len())
}

func TestChannel_Clear(t *testing.T) {
	c := NewChannel[int]()
	c.Bind(func([]int) { t.Fatal("cleared handler ran") })
	c.Clear()
	c.Broadcast([]int{1})
	assert.Zero(t, c.Len())
}
