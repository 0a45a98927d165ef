package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successfulOrder() models.Order {
	return models.Order{
		ID:     "o42",
		User:   &models.Person{Name: "Doe, John", Email: "john@x.io"},
		Status: models.OrderSuccessful,
		Products: []models.OrderLine{
			{Price: 10, Quantity: 2},
			{Price: 2.5, Quantity: 1},
		},
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local),
	}
}

func TestWriteOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrder(&buf, successfulOrder()))
	assert.Equal(t, "Customer,Email,Date,Total,Status\n\"Doe, John\",john@x.io,2025-03-01,22.5,successful\n", buf.String())
}

func TestWriteOrder_OnlySuccessful(t *testing.T) {
	for _, status := range []string{models.OrderPending, models.OrderCancelled, ""} {
		o := successfulOrder()
		o.Status = status

		var buf bytes.Buffer
		err := WriteOrder(&buf, o)
		require.ErrorIs(t, err, ErrNotExportable)
		assert.Equal(t, "only successful orders can be exported", err.Error())
		assert.Zero(t, buf.Len())
	}
}

func TestOrder_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := Order(dir, successfulOrder())
	require.NoError(t, err)
	assert.Equal(t, "order_o42.csv", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "john@x.io")

	o := successfulOrder()
	o.ID = "o43"
	o.Status = models.OrderPending
	_, err = Order(dir, o)
	require.ErrorIs(t, err, ErrNotExportable)
	assert.NoFileExists(t, filepath.Join(dir, "order_o43.csv"))
}
