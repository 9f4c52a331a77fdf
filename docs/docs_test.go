package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	require.Equal(t, "/api", doc.BasePath)

	for _, r := range []string{
		"get /ping",
		"get /games", "post /games",
		"get /games/browse", "get /games/search", "get /games/price",
		"put /games/updategames", "delete /games/deletegames",
		"post /user/register", "post /user/login", "post /user/logout",
		"post /user/verify", "post /user/profile",
		"get /cart", "post /cart", "delete /cart/{game_id}",
		"get /wishlist", "post /wishlist", "delete /wishlist/{game_id}",
		"post /checkout",
		"post /sendEmail",
	} {
		method, path, _ := strings.Cut(r, " ")
		ops, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		_, ok = ops[method]
		require.True(t, ok, "missing %s", r)
	}
}
