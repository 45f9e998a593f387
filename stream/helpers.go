package stream

import (
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/satchel/store"
)

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// dataImage extracts the record's data map from a stream image as plain Go
// values. A missing or non-map attribute yields an empty map.
func dataImage(image map[string]events.DynamoDBAttributeValue) map[string]any {
	v, ok := image[store.DataAttr]
	if !ok || v.DataType() != events.DataTypeMap {
		return map[string]any{}
	}
	return convertMap(v.Map())
}

func convertMap(m map[string]events.DynamoDBAttributeValue) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = convertValue(v)
	}
	return result
}

// convertValue turns a stream attribute value into the plain Go value the
// attributevalue decoder would produce for the same wire shape.
func convertValue(v events.DynamoDBAttributeValue) any {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		n, err := strconv.ParseFloat(v.Number(), 64)
		if err != nil {
			return v.Number()
		}
		return n
	case events.DataTypeBoolean:
		return v.Boolean()
	case events.DataTypeNull:
		return nil
	case events.DataTypeBinary:
		return v.Binary()
	case events.DataTypeMap:
		return convertMap(v.Map())
	case events.DataTypeList:
		list := v.List()
		result := make([]any, 0, len(list))
		for _, item := range list {
			result = append(result, convertValue(item))
		}
		return result
	case events.DataTypeStringSet:
		set := v.StringSet()
		result := make([]any, 0, len(set))
		for _, s := range set {
			result = append(result, s)
		}
		return result
	case events.DataTypeNumberSet:
		set := v.NumberSet()
		result := make([]any, 0, len(set))
		for _, s := range set {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				result = append(result, n)
			} else {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
