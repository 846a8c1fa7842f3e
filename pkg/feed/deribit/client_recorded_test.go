package deribit

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test uses go-vcr to record/replay a real get_index_price call.
// It skips by default if the cassette is absent and RECORD_CASSETTES != 1.
func TestClient_FetchIndexPrice_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "deribit_index_price")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err, "recorder.New should not error")
	defer func() { _ = r.Stop() }()

	client := NewClient(WithHTTPClient(&http.Client{Transport: r}))
	price, err := client.FetchIndexPrice(context.Background(), "btc_usd")
	require.NoError(t, err)
	assert.True(t, price.IsPositive(), "index price should be positive")
}
