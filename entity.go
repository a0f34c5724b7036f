package osm2gpx

import (
	"fmt"

	"github.com/paulmach/osm"
)

// EntityID returns the (type, ref) identifier of the given OSM object.
// Only nodes, ways and relations are supported
func EntityID(obj osm.Object) (osm.FeatureID, bool) {
	switch o := obj.(type) {
	case *osm.Node:
		return o.ID.FeatureID(), true
	case *osm.Way:
		return o.ID.FeatureID(), true
	case *osm.Relation:
		return o.ID.FeatureID(), true
	}
	return 0, false
}

// EntityTags returns tags of node, way or relation. Nil for anything else
func EntityTags(obj osm.Object) osm.Tags {
	switch o := obj.(type) {
	case *osm.Node:
		return o.Tags
	case *osm.Way:
		return o.Tags
	case *osm.Relation:
		return o.Tags
	}
	return nil
}

// findTag returns value of the tag and whether the tag exists at all
func findTag(tags osm.Tags, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// Dependencies returns ordered list of identifiers which have to be resolved to get a coordinate for the object:
//
//	node - the node itself
//	way - its nodes in original order
//	relation - its members (any kind) in original order
func Dependencies(obj osm.Object) []osm.FeatureID {
	switch o := obj.(type) {
	case *osm.Node:
		return []osm.FeatureID{o.ID.FeatureID()}
	case *osm.Way:
		deps := make([]osm.FeatureID, 0, len(o.Nodes))
		for _, wayNode := range o.Nodes {
			deps = append(deps, wayNode.ID.FeatureID())
		}
		return deps
	case *osm.Relation:
		deps := make([]osm.FeatureID, 0, len(o.Members))
		for _, member := range o.Members {
			fid, ok := memberFeatureID(member)
			if !ok {
				continue
			}
			deps = append(deps, fid)
		}
		return deps
	}
	return nil
}

// memberFeatureID converts relation member into feature identifier.
// Changeset members or members of unknown type are ignored
func memberFeatureID(member osm.Member) (osm.FeatureID, bool) {
	switch member.Type {
	case osm.TypeNode:
		return osm.NodeID(member.Ref).FeatureID(), true
	case osm.TypeWay:
		return osm.WayID(member.Ref).FeatureID(), true
	case osm.TypeRelation:
		return osm.RelationID(member.Ref).FeatureID(), true
	}
	return 0, false
}

// typeRank gives nodes < ways < relations ordering
func typeRank(t osm.Type) int {
	switch t {
	case osm.TypeNode:
		return 0
	case osm.TypeWay:
		return 1
	case osm.TypeRelation:
		return 2
	}
	return 3
}

// lessFeatureID orders identifiers by kind first and by reference inside the same kind
func lessFeatureID(a, b osm.FeatureID) bool {
	ra, rb := typeRank(a.Type()), typeRank(b.Type())
	if ra != rb {
		return ra < rb
	}
	return a.Ref() < b.Ref()
}

func describeEntity(obj osm.Object) string {
	fid, ok := EntityID(obj)
	if !ok {
		return fmt.Sprintf("%v", obj.ObjectID())
	}
	return fid.String()
}
