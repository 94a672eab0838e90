package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

func newExportServer(t *testing.T, handler http.HandlerFunc) *SheetClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewSheetClient(nil)
	client.exportBase = srv.URL
	return client
}

func TestPublicCSVSuccess(t *testing.T) {
	client := newExportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/d/sheet-1/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "7", r.URL.Query().Get("gid"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Data,Valor\n10/01/2025,\"150,00\"\n"))
	})

	rows, err := client.PublicCSV(context.Background(), "sheet-1", 7)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Data", "Valor"}, rows[0])
	assert.Equal(t, []string{"10/01/2025", "150,00"}, rows[1])
}

func TestPublicCSVNoGID(t *testing.T) {
	client := newExportServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("gid"), "gid zero means the first tab, no parameter")
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a,b\n1,2\n"))
	})

	_, err := client.PublicCSV(context.Background(), "sheet-1", 0)
	require.NoError(t, err)
}

func TestPublicCSVPrivateSheetHTMLResponse(t *testing.T) {
	// A private sheet redirects to the login page, served as HTML with 200.
	client := newExportServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>sign in</html>"))
	})

	_, err := client.PublicCSV(context.Background(), "sheet-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not public")
}

func TestPublicCSVNon200(t *testing.T) {
	client := newExportServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.PublicCSV(context.Background(), "sheet-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPublicCSVRaggedRows(t *testing.T) {
	// Sheets exports rows of unequal width; the reader must not reject them.
	client := newExportServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a,b,c\n1\n2,3\n"))
	})

	rows, err := client.PublicCSV(context.Background(), "sheet-1", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestPublicCSVNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewSheetClient(nil)
	client.exportBase = srv.URL

	_, err := client.PublicCSV(context.Background(), "sheet-1", 0)
	require.ErrorIs(t, err, domain.ErrTransient)
}

func TestTabsWithoutService(t *testing.T) {
	client := NewSheetClient(nil)

	_, err := client.Tabs(context.Background(), "sheet-1")
	require.Error(t, err)
	_, err = client.Values(context.Background(), "sheet-1", "Despesas")
	require.Error(t, err)
}
