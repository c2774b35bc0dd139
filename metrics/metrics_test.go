package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveBuild(t *testing.T) {
	ObserveBuild("topdown", 25*time.Millisecond, 7, 4, 2)

	body := scrape(t)
	for _, exp := range []string{
		`meshbvh_build_duration_seconds_count{builder="topdown"} 1`,
		`meshbvh_tree_nodes{builder="topdown"} 7`,
		`meshbvh_tree_leaves{builder="topdown"} 4`,
		`meshbvh_tree_max_depth{builder="topdown"} 2`,
	} {
		require.True(t, strings.Contains(body, exp), "expected %q in scrape output", exp)
	}
}

func TestCountRay(t *testing.T) {
	CountRay(true)
	CountRay(false)
	CountRay(false)

	body := scrape(t)
	require.Contains(t, body, `meshbvh_rays_total{result="hit"} 1`)
	require.Contains(t, body, `meshbvh_rays_total{result="miss"} 2`)
	require.Contains(t, body, "go_goroutines")
}
