package boltconn

import "github.com/abdulrahman305/neo4j-jdbc/pkg/boltvalues"

// toValue lifts a plain Go value (as a caller would pass for RUN parameters
// or message meta) into the boltvalues.Value sum type. It supports the
// shapes JSON-like config/parameter data naturally takes; callers needing
// graph entities or temporal types build a boltvalues.Value directly and
// pass it through.
func toValue(v any) (boltvalues.Value, error) {
	switch x := v.(type) {
	case nil:
		return boltvalues.Null, nil
	case boltvalues.Value:
		return x, nil
	case bool:
		return boltvalues.NewBoolean(x), nil
	case string:
		return boltvalues.NewString(x), nil
	case int:
		return boltvalues.NewInteger(int64(x)), nil
	case int64:
		return boltvalues.NewInteger(x), nil
	case float64:
		return boltvalues.NewFloat(x), nil
	case []byte:
		return boltvalues.NewBytes(x), nil
	case []any:
		items := make([]boltvalues.Value, len(x))
		for i, e := range x {
			cv, err := toValue(e)
			if err != nil {
				return boltvalues.Value{}, err
			}
			items[i] = cv
		}
		return boltvalues.NewList(items), nil
	case map[string]any:
		return boltvalues.NewMap(toOrderedMap(x)), nil
	default:
		return boltvalues.Value{}, &CoercionInputError{Value: v}
	}
}

func toOrderedMap(m map[string]any) *boltvalues.OrderedMap {
	om := boltvalues.NewOrderedMap()
	for k, v := range m {
		cv, err := toValue(v)
		if err != nil {
			cv = boltvalues.NewUnsupported("param", err.Error())
		}
		om.Set(k, cv)
	}
	return om
}

// CoercionInputError reports a caller-supplied parameter/meta value of an
// unsupported Go type.
type CoercionInputError struct{ Value any }

func (e *CoercionInputError) Error() string {
	return "boltconn: unsupported parameter type in client input"
}

func metaString(m *boltvalues.OrderedMap, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.Get(key)
	if !ok || v.Kind() != boltvalues.KindString {
		return "", false
	}
	return v.AsString(), true
}

func metaBool(m *boltvalues.OrderedMap, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m.Get(key)
	if !ok || v.Kind() != boltvalues.KindBoolean {
		return false, false
	}
	return v.AsBoolean(), true
}

func metaInt(m *boltvalues.OrderedMap, key string) (int64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.Get(key)
	if !ok || v.Kind() != boltvalues.KindInteger {
		return 0, false
	}
	return v.AsInteger(), true
}
