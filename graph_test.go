package osm2gpx

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestEntityGraph(t *testing.T) {
	graph := NewEntityGraph()
	assert.True(t, graph.Add(&osm.Relation{ID: 1}))
	assert.True(t, graph.Add(&osm.Way{ID: 7}))
	assert.True(t, graph.Add(&osm.Node{ID: 5}))
	assert.True(t, graph.Add(&osm.Node{ID: 2}))
	assert.True(t, graph.Add(&osm.Way{ID: 3}))
	assert.False(t, graph.Add(&osm.Changeset{ID: 1}))
	assert.Equal(t, 5, graph.Len())

	obj, ok := graph.Get(osm.WayID(7).FeatureID())
	assert.True(t, ok)
	assert.Equal(t, osm.WayID(7), obj.(*osm.Way).ID)

	// Identifiers are unique within kind only
	_, ok = graph.Get(osm.NodeID(7).FeatureID())
	assert.False(t, ok)
	assert.True(t, graph.Has(osm.RelationID(1).FeatureID()))
	assert.False(t, graph.Has(osm.NodeID(1).FeatureID()))

	ids := []osm.FeatureID{}
	for _, obj := range graph.Objects() {
		fid, _ := EntityID(obj)
		ids = append(ids, fid)
	}
	assert.Equal(t, []osm.FeatureID{
		osm.NodeID(2).FeatureID(),
		osm.NodeID(5).FeatureID(),
		osm.WayID(3).FeatureID(),
		osm.WayID(7).FeatureID(),
		osm.RelationID(1).FeatureID(),
	}, ids)
}

func TestDependencies(t *testing.T) {
	node := &osm.Node{ID: 1}
	assert.Equal(t, []osm.FeatureID{osm.NodeID(1).FeatureID()}, Dependencies(node))

	way := &osm.Way{ID: 2, Nodes: osm.WayNodes{{ID: 3}, {ID: 1}, {ID: 3}}}
	assert.Equal(t, []osm.FeatureID{
		osm.NodeID(3).FeatureID(),
		osm.NodeID(1).FeatureID(),
		osm.NodeID(3).FeatureID(),
	}, Dependencies(way))

	relation := &osm.Relation{ID: 4, Members: osm.Members{
		{Type: osm.TypeRelation, Ref: 5},
		{Type: osm.TypeNode, Ref: 6, Role: "label"},
		{Type: osm.TypeWay, Ref: 7, Role: "outer"},
	}}
	assert.Equal(t, []osm.FeatureID{
		osm.RelationID(5).FeatureID(),
		osm.NodeID(6).FeatureID(),
		osm.WayID(7).FeatureID(),
	}, Dependencies(relation))

	assert.Nil(t, Dependencies(&osm.Changeset{ID: 1}))
}
