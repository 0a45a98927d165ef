// Package export writes single orders to CSV files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/dmitrijs2005/shopadmin/internal/filex"
)

// ErrNotExportable is returned for orders that have not completed.
var ErrNotExportable = errors.New("only successful orders can be exported")

var header = []string{"Customer", "Email", "Date", "Total", "Status"}

// FileName is the export file name of an order.
func FileName(o models.Order) string {
	return "order_" + o.ID.String() + ".csv"
}

// WriteOrder writes the header and one row for o.
func WriteOrder(w io.Writer, o models.Order) error {
	if o.Status != models.OrderSuccessful {
		return ErrNotExportable
	}

	var name, email string
	if o.User != nil {
		name, email = o.User.Name, o.User.Email
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := []string{
		name,
		email,
		o.CreatedAt.Local().Format(time.DateOnly),
		strconv.FormatFloat(o.Total(), 'f', -1, 64),
		o.Status,
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Order exports o into dir and returns the file path. Nothing is created for
// orders that cannot be exported.
func Order(dir string, o models.Order) (string, error) {
	if o.Status != models.OrderSuccessful {
		return "", ErrNotExportable
	}

	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}
	path := filepath.Join(abs, FileName(o))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteOrder(f, o); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
