package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"lucy-chat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFromRecipes(t *testing.T) {
	recipes := []models.Recipe{
		{ID: 1, Name: "Pizza", Ingredients: []string{"Flour", "Tomato sauce", "Mozzarella"}},
		{ID: 2, Name: "Salad", Ingredients: []string{"Lettuce", "tomato sauce", " ", "Flour"}},
	}

	products := BuildFromRecipes(recipes)
	require.Len(t, products, 4)

	titles := make([]string, len(products))
	for i, p := range products {
		titles[i] = p.Title
		assert.Equal(t, i+1, p.ID)
		assert.Equal(t, DefaultCategory, p.Category)
	}
	assert.Equal(t, []string{"Flour", "Lettuce", "Mozzarella", "Tomato sauce"}, titles)
}

func TestSaveLoadValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	products := BuildFromRecipes([]models.Recipe{{Ingredients: []string{"Milk", "Eggs"}}})
	require.NoError(t, Save(path, products))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, products, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "valid", data: `[{"id":1,"title":"Milk","price":1.5}]`},
		{name: "not an array", data: `{"id":1}`, wantErr: "validation failed"},
		{name: "missing title", data: `[{"id":1,"price":1}]`, wantErr: "validation failed"},
		{name: "negative price", data: `[{"id":1,"title":"Milk","price":-1}]`, wantErr: "validation failed"},
		{name: "duplicate id", data: `[{"id":1,"title":"Milk","price":1},{"id":1,"title":"Eggs","price":1}]`, wantErr: "duplicate product id"},
		{name: "duplicate title", data: `[{"id":1,"title":"Milk","price":1},{"id":2,"title":"milk","price":1}]`, wantErr: "duplicate product title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.data))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":0,"title":""}]`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
