package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltstream"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"
)

// printStream drains stream to stdout, one line per record, a tab-separated
// rendering of each field by name.
func printStream(ctx context.Context, stream *boltstream.Stream) error {
	fields := stream.FieldNames()
	if len(fields) > 0 {
		fmt.Println(strings.Join(fields, "\t"))
	}
	for {
		rec, ok, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("boltcli: read record: %w", err)
		}
		if !ok {
			break
		}
		cells := make([]string, rec.Len())
		for i := range cells {
			v, err := rec.Get(i)
			if err != nil {
				return err
			}
			cells[i] = renderValue(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	c := stream.Summary().Counters
	fmt.Printf("-- nodes created %d, relationships created %d, properties set %d\n",
		c.NodesCreated, c.RelationshipsCreated, c.PropertiesSet)
	return nil
}

// renderValue formats a Value for display, recursing into the container
// and graph kinds.
func renderValue(v boltvalues.Value) string {
	switch v.Kind() {
	case boltvalues.KindNull:
		return "NULL"
	case boltvalues.KindBoolean:
		return fmt.Sprintf("%v", v.AsBoolean())
	case boltvalues.KindInteger:
		return fmt.Sprintf("%d", v.AsInteger())
	case boltvalues.KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case boltvalues.KindString:
		return v.AsString()
	case boltvalues.KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.AsBytes()))
	case boltvalues.KindList:
		items := v.AsList()
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case boltvalues.KindMap:
		return renderMap(v.AsMap())
	case boltvalues.KindNode:
		n := v.AsNode()
		return fmt.Sprintf("(%s %s)", strings.Join(n.Labels, ":"), renderMap(n.Properties))
	case boltvalues.KindRelationship:
		r := v.AsRelationship()
		return fmt.Sprintf("[:%s %s]", r.Type, renderMap(r.Properties))
	case boltvalues.KindPath:
		p := v.AsPath()
		return fmt.Sprintf("<path: %d nodes, %d relationships>", len(p.Nodes), len(p.Relationships))
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

func renderMap(m *boltvalues.OrderedMap) string {
	if m == nil {
		return "{}"
	}
	parts := make([]string, 0, m.Len())
	for _, k := range m.Keys() {
		val, _ := m.Get(k)
		parts = append(parts, k+": "+renderValue(val))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
