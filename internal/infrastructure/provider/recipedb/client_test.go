package recipedb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/ports/outbound"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, APIKey: "test-key"}, zap.NewNop())
}

func TestFetchPageWrappedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "salad", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "vegan", r.URL.Query().Get("diet"))
		assert.Equal(t, "nuts,dairy", r.URL.Query().Get("excludeIngredients"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":"r1","title":"Green Salad","nutrition":{"calories":320,"protein":12}},
			{"id":"r2","title":"Fruit Bowl","calories":280}
		]}`))
	})

	candidates, err := client.FetchPage(context.Background(), outbound.PageQuery{
		SearchTerm: "salad",
		DietType:   "vegan",
		Allergies:  []string{"nuts", "dairy"},
		Page:       2,
		PageSize:   20,
	})
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, "r1", candidates[0].ID)
	assert.Equal(t, 320.0, candidates[0].Nutrition.Calories)
	assert.Equal(t, 12.0, candidates[0].Nutrition.Protein)
	// Top-level calories are picked up without a nutrition container.
	assert.Equal(t, 280.0, candidates[1].Nutrition.Calories)
}

func TestFetchPageBareArrayResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"r1","title":"Soup"}]`))
	})

	candidates, err := client.FetchPage(context.Background(), outbound.PageQuery{
		SearchTerm: "soup", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Soup", candidates[0].Title)
}

func TestFetchPageSkipsUnusableEntries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"ok","title":"Fine"},{"calories":200}]}`))
	})

	candidates, err := client.FetchPage(context.Background(), outbound.PageQuery{
		SearchTerm: "x", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ok", candidates[0].ID)
}

func TestFetchPageServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchPage(context.Background(), outbound.PageQuery{
		SearchTerm: "x", Page: 1, PageSize: 10,
	})
	assert.Error(t, err)
}

func TestFetchRecipe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/r42", r.URL.Path)
		w.Write([]byte(`{"id":"r42","title":"Chili","nutrition":{"calories":540,"protein":35,"sodium":"420 mg"}}`))
	})

	recipe, err := client.FetchRecipe(context.Background(), "r42")
	require.NoError(t, err)

	assert.Equal(t, "r42", recipe.ID)
	assert.Equal(t, "Chili", recipe.Title)
	assert.Equal(t, 540.0, recipe.Nutrition.Calories)
	assert.Equal(t, 420.0, recipe.Nutrition.Sodium)
}

func TestFetchRecipeNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.FetchRecipe(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFetchRecipeOfDayWrapped(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/recipe-of-the-day", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"day":{"id":"featured","title":"Shakshuka","tags":["Vegetarian"]}}`))
	})

	recipe, err := client.FetchRecipeOfDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "featured", recipe.ID)
	assert.Equal(t, "Shakshuka", recipe.Title)
	assert.Equal(t, []string{"vegetarian"}, recipe.Tags)
}

func TestFetchRecipeOfDayBareObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"featured","title":"Shakshuka"}`))
	})

	recipe, err := client.FetchRecipeOfDay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "featured", recipe.ID)
}

func TestFetchRecipeOfDayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.FetchRecipeOfDay(context.Background())
	assert.Error(t, err)
}
