package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/aramex/pkg/wire"
)

func TestNode_ZeroValueIsAbsent(t *testing.T) {
	var n wire.Node
	assert.True(t, n.IsAbsent())
	assert.Equal(t, wire.KindAbsent, n.Kind())
	assert.Empty(t, n.Items())
	assert.Nil(t, n.Fields())
}

func TestNode_GetAndPath(t *testing.T) {
	n := wire.Map(
		wire.F("ActualWeight", wire.Map(
			wire.F("Unit", wire.String("KG")),
			wire.F("Value", wire.Float(2.5)),
		)),
	)

	v, ok := n.Path("ActualWeight", "Value").Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, "KG", n.Path("ActualWeight", "Unit").Text())
	assert.True(t, n.Path("ActualWeight", "Missing", "Deeper").IsAbsent())
	assert.True(t, wire.String("x").Get("y").IsAbsent())
}

func TestNode_Items(t *testing.T) {
	assert.Len(t, wire.List(wire.String("a"), wire.String("b")).Items(), 2)
	assert.Len(t, wire.Map(wire.F("a", wire.String("1"))).Items(), 1)
	assert.Len(t, wire.String("x").Items(), 1)
}

func TestNode_ScalarReaders(t *testing.T) {
	b, ok := wire.String(" true ").Bool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = wire.String("nope").Bool()
	assert.False(t, ok)

	f, ok := wire.String("12.75").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.75, f)

	f, ok = wire.Int(4).Float()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	assert.Equal(t, "false", wire.Bool(false).Text())
	assert.Equal(t, "9201", wire.Int(9201).Text())
	assert.Equal(t, "", wire.Map().Text())
}
