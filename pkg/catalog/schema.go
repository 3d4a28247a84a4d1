// pkg/catalog/schema.go
package catalog

// Schema is the JSON schema of products.json.
var Schema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"id", "title", "price"},
		"properties": map[string]interface{}{
			"id":                 map[string]interface{}{"type": "integer", "minimum": 1},
			"title":              map[string]interface{}{"type": "string", "minLength": 1},
			"description":        map[string]interface{}{"type": "string"},
			"price":              map[string]interface{}{"type": "number", "minimum": 0},
			"discountPercentage": map[string]interface{}{"type": "number"},
			"rating":             map[string]interface{}{"type": "number"},
			"stock":              map[string]interface{}{"type": "integer", "minimum": 0},
			"brand":              map[string]interface{}{"type": "string"},
			"category":           map[string]interface{}{"type": "string"},
			"thumbnail":          map[string]interface{}{"type": "string"},
			"images": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
	},
}
