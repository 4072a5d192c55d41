package sender

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracescope/collector"
	"tracescope/converter"
	"tracescope/measure"
)

func testProfile(t *testing.T) *profile.Profile {
	t.Helper()
	r := measure.Measure([]collector.Record{
		{Module: "m", File: "a.py", FirstLine: 10, CurrentLine: 10, Function: "f", Kind: collector.EventCall},
		{Module: "m", File: "a.py", FirstLine: 10, CurrentLine: 13, Function: "f", Kind: collector.EventReturn, Elapsed: 5},
	})
	prof, err := converter.CallProfile(r, time.Unix(100, 0), time.Second)
	require.NoError(t, err)
	return prof
}

func TestSendProfile(t *testing.T) {
	var gotAuth, gotName string
	var gotProfile, gotConfig []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ingest", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotName = r.URL.Query().Get("name")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		read := func(field string) []byte {
			f, _, err := r.FormFile(field)
			require.NoError(t, err)
			defer f.Close()
			data, err := io.ReadAll(f)
			require.NoError(t, err)
			return data
		}
		gotProfile = read("profile")
		gotConfig = read("sample_type_config")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(Config{
		IngestURL: srv.URL,
		AuthToken: "secret",
		AppName:   "app",
		Tags:      map[string]string{"env": "test", "az": "a"},
	}, nil)

	require.NoError(t, s.SendProfile(testProfile(t), converter.CallSampleTypes))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "app{az=a,env=test}", gotName)
	assert.Contains(t, string(gotConfig), "cumulative")

	parsed, err := profile.ParseData(gotProfile)
	require.NoError(t, err)
	assert.Len(t, parsed.Sample, 1)
}

func TestSendProfileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ingest unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(Config{IngestURL: srv.URL, AppName: "app"}, nil)
	err := s.SendProfile(testProfile(t), converter.CallSampleTypes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "ingest unavailable")
}
