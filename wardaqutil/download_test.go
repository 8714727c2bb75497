package wardaqutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func helperLog(t *testing.T) chan string {
	outChan := make(chan string)
	go func() {
		for {
			msg := <-outChan
			t.Logf(msg)
		}
	}()
	return outChan
}

func TestMaybeDownloadLocal(t *testing.T) {
	if k := MaybeDownload(context.Background(), "/dev/null", helperLog(t)); k != "/dev/null" {
		t.Error("Expected /dev/null, got ", k)
	}
}

func TestMaybeDownloadLocal2(t *testing.T) {
	if k := MaybeDownload(context.Background(), "/blah/test/", helperLog(t)); k != "/blah/test/" {
		t.Error("Expected /blah/test/, got ", k)
	}
}

func TestMaybeDownloadRemoteFail(t *testing.T) {
	if k := MaybeDownload(context.Background(), "http://blah/test/", helperLog(t)); k != "http://blah/test/" {
		t.Error("Expected http://blah/test/, got ", k)
	}
}

func TestMaybeDownloadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("City,WARD,Area,Date,PM2.5,geometry\n"))
	}))
	defer srv.Close()
	k := MaybeDownload(context.Background(), srv.URL+"/table.csv", helperLog(t))
	if !strings.HasSuffix(k, "table.csv") {
		t.Error("Expected tempDir/table.csv, got ", k)
	}
}

func TestMaybeDownloadRemoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	url := srv.URL + "/missing.csv"
	if k := MaybeDownload(context.Background(), url, helperLog(t)); k != url {
		t.Error("Expected ", url, ", got ", k)
	}
}

func TestIsBlob(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"gs://bucket/table.csv", true},
		{"s3://bucket/table.csv", true},
		{"file://dir/table.csv", true},
		{"/local/table.csv", false},
		{"http://host/table.csv", false},
	}
	for _, test := range tests {
		if got := IsBlob(test.path); got != test.want {
			t.Errorf("IsBlob(%q): want %v, got %v", test.path, test.want, got)
		}
	}
}
