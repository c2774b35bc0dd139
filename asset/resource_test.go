package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource not to be flagged as remote")
	}
	if res.Name() != "resource_test.go" {
		t.Fatalf("expected resource name to be resource_test.go; got %s", res.Name())
	}
}

func TestMissingLocalResource(t *testing.T) {
	_, err := NewResource(filepath.Join(t.TempDir(), "missing.obj"), nil)
	if err == nil || !strings.HasPrefix(err.Error(), "resource: ") {
		t.Fatalf("expected a resource error; got %v", err)
	}
}

func TestRelativeLocalResource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "parts"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, payload := range map[string]string{"main.obj": "main", "parts/wheel.obj": "wheel"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	parent, err := NewResource(filepath.Join(dir, "main.obj"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer parent.Close()

	child, err := NewResource("parts/wheel.obj", parent)
	if err != nil {
		t.Fatal(err)
	}
	defer child.Close()

	data, err := io.ReadAll(child)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "wheel" {
		t.Fatalf("expected to read 'wheel'; got %q", string(data))
	}
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if !res.IsRemote() || res.Name() != filepath.Base(thisFile) {
		t.Fatalf("expected remote resource named %s; got %s (remote: %t)", filepath.Base(thisFile), res.Name(), res.IsRemote())
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = NewResource(fetchUrl, nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestRelativeRemoteResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		if r.URL.Path == "/foo/file1.obj" || r.URL.Path == "/foo/file2.obj" {
			w.Write([]byte("OK"))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	res1, err := NewResource(server.URL+"/foo/file1.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res1.Close()
	res2, err := NewResource("file2.obj", res1)
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Close()

	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.obj", nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("embedded.obj", strings.NewReader("v 0 0 0"))
	defer res.Close()

	if res.Path() != "embedded.obj" || res.IsRemote() {
		t.Fatalf("expected local stream resource named embedded.obj; got %s", res.Path())
	}
	data, _ := io.ReadAll(res)
	if string(data) != "v 0 0 0" {
		t.Fatalf("expected to read stream contents; got %q", string(data))
	}
}
